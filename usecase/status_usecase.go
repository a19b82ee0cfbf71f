package usecase

import (
	"context"
	"errors"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/logger"
)

// IStatusUseCase projects connection state and serves the local catalog.
type IStatusUseCase interface {
	GetStatus(ctx context.Context, ownerID string) (*dto.IntegrationStatus, error)
	ListCatalog(ctx context.Context, ownerID string, req dto.CatalogListRequest) (*dto.CatalogPage, error)
}

// IStatusCache caches the status projection per owner. Implementations are
// optional; a nil cache disables caching entirely.
type IStatusCache interface {
	GetStatus(ctx context.Context, ownerID string) (*dto.IntegrationStatus, bool)
	SetStatus(ctx context.Context, ownerID string, status *dto.IntegrationStatus)
}

// StatusUseCase reads stored accounts and synced items; it never talks to a
// platform. A stale token therefore still projects as connected.
type StatusUseCase struct {
	accountRepo repository.IIntegrationAccount
	mediaRepo   repository.IMediaItem
	cache       IStatusCache
}

func NewStatusUseCase(accountRepo repository.IIntegrationAccount, mediaRepo repository.IMediaItem, cache IStatusCache) IStatusUseCase {
	return &StatusUseCase{accountRepo: accountRepo, mediaRepo: mediaRepo, cache: cache}
}

func (u *StatusUseCase) GetStatus(ctx context.Context, ownerID string) (*dto.IntegrationStatus, error) {
	if u.cache != nil {
		if cached, ok := u.cache.GetStatus(ctx, ownerID); ok {
			return cached, nil
		}
	}

	status := &dto.IntegrationStatus{}
	for _, platform := range []model.Platform{model.PlatformYouTube, model.PlatformInstagram} {
		account, err := u.accountRepo.GetByOwnerAndPlatform(ctx, ownerID, platform)
		if err != nil {
			if errors.Is(err, model.ErrNotConnected) {
				continue
			}
			return nil, err
		}
		connectedAt := account.ConnectedAt
		ps := dto.PlatformStatus{
			Connected:       true,
			DisplayIdentity: account.ExternalDisplayName,
			ConnectedAt:     &connectedAt,
		}
		if ps.DisplayIdentity == "" {
			ps.DisplayIdentity = account.ExternalAccountID
		}
		switch platform {
		case model.PlatformYouTube:
			status.YouTube = ps
		case model.PlatformInstagram:
			status.Instagram = ps
		}
	}

	shorts, videos, err := u.mediaRepo.CountByOwnerAndClass(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	status.Counts = dto.MediaCounts{Shorts: shorts, Videos: videos, Total: shorts + videos}

	if u.cache != nil {
		u.cache.SetStatus(ctx, ownerID, status)
	}
	return status, nil
}

func (u *StatusUseCase) ListCatalog(ctx context.Context, ownerID string, req dto.CatalogListRequest) (*dto.CatalogPage, error) {
	var isShort *bool
	switch req.Filter {
	case "", "all":
	case "shorts":
		v := true
		isShort = &v
	case "videos":
		v := false
		isShort = &v
	default:
		logger.GetLogger().WithField("filter", req.Filter).Info("unknown catalog filter, returning all")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := u.mediaRepo.ListByOwner(ctx, ownerID, isShort, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.CatalogPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

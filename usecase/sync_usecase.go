package usecase

import (
	"context"
	"errors"
	"time"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/logger"
)

// ErrReconnectRequired is returned when a platform account exists but its
// credential expired with no renewal path. The connection record stays in
// place; only a fresh OAuth handshake revives it.
var ErrReconnectRequired = errors.New("access token expired, reconnect required")

// maxSyncPages bounds one reconciliation pass against runaway cursors.
const maxSyncPages = 200

// CatalogSourceFactory opens a platform catalog reader for an access token.
type CatalogSourceFactory func(ctx context.Context, platform model.Platform, accessToken string) (repository.ICatalogSource, error)

// ICatalogInvalidator drops cached projections for an owner after a sync.
type ICatalogInvalidator interface {
	InvalidateOwner(ctx context.Context, ownerID string) error
}

// ISyncEventSink receives a notification after a completed reconciliation.
type ISyncEventSink interface {
	SyncCompleted(ctx context.Context, ownerID string, platform model.Platform, run model.SyncRun) error
}

// ISyncUseCase runs the catalog reconciliation for one owner and platform.
type ISyncUseCase interface {
	SyncMedia(ctx context.Context, ownerID string, platform model.Platform) (*model.SyncRun, error)
}

// SyncUseCase pulls the remote catalog page by page and reconciles it into
// media_items by natural key. New items are created in full; existing items
// only refresh their display fields. Nothing is ever pruned.
type SyncUseCase struct {
	accountRepo repository.IIntegrationAccount
	mediaRepo   repository.IMediaItem
	tokens      ITokenUseCase
	sources     CatalogSourceFactory
	invalidator ICatalogInvalidator
	sinks       []ISyncEventSink
}

func NewSyncUseCase(
	accountRepo repository.IIntegrationAccount,
	mediaRepo repository.IMediaItem,
	tokens ITokenUseCase,
	sources CatalogSourceFactory,
	invalidator ICatalogInvalidator,
	sinks ...ISyncEventSink,
) ISyncUseCase {
	return &SyncUseCase{
		accountRepo: accountRepo,
		mediaRepo:   mediaRepo,
		tokens:      tokens,
		sources:     sources,
		invalidator: invalidator,
		sinks:       sinks,
	}
}

func (u *SyncUseCase) SyncMedia(ctx context.Context, ownerID string, platform model.Platform) (*model.SyncRun, error) {
	lg := logger.GetLogger().WithField("owner_id", ownerID).WithField("platform", platform)

	account, err := u.accountRepo.GetByOwnerAndPlatform(ctx, ownerID, platform)
	if err != nil {
		return nil, err
	}
	accessToken, err := u.tokens.GetValidAccessToken(ctx, ownerID, platform)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, ErrReconnectRequired
	}

	source, err := u.sources(ctx, platform, accessToken)
	if err != nil {
		lg.WithField("error", err).Error("opening catalog source failed")
		return nil, model.ErrRemoteFetchFailed
	}

	collectionID, err := source.ResolveCollectionID(ctx, account.ExternalAccountID)
	if err != nil {
		return nil, err
	}

	var items []model.RemoteMediaItem
	pageToken := ""
	for page := 0; page < maxSyncPages; page++ {
		catalogPage, err := source.ListItems(ctx, collectionID, pageToken)
		if err != nil {
			return nil, err
		}
		items = append(items, catalogPage.Items...)
		pageToken = catalogPage.NextPageToken
		if pageToken == "" {
			break
		}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ExternalID)
	}
	details, err := source.FetchDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	run := &model.SyncRun{}
	for _, remote := range items {
		detail := details[remote.ExternalID]
		if err := u.reconcile(ctx, ownerID, platform, remote, detail, run); err != nil {
			lg.WithField("external_id", remote.ExternalID).WithField("error", err).Error("reconcile item failed")
			return nil, err
		}
	}
	run.Total = run.Created + run.Updated

	u.afterSync(ctx, ownerID, platform, *run)
	lg.WithField("created", run.Created).WithField("updated", run.Updated).Info("catalog sync finished")
	return run, nil
}

func (u *SyncUseCase) reconcile(ctx context.Context, ownerID string, platform model.Platform, remote model.RemoteMediaItem, detail model.RemoteMediaDetail, run *model.SyncRun) error {
	existing, err := u.mediaRepo.GetByNaturalKey(ctx, remote.ExternalID, ownerID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	if existing != nil {
		existing.Title = remote.Title
		existing.Description = remote.Description
		existing.ThumbnailURL = remote.ThumbnailURL
		existing.ViewCount = detail.ViewCount
		if err := u.mediaRepo.Upsert(ctx, existing); err != nil {
			return err
		}
		run.Updated++
		return nil
	}

	seconds := ParseISODuration(detail.DurationRaw)
	item := &model.MediaItem{
		ExternalID:        remote.ExternalID,
		OwnerID:           ownerID,
		Title:             remote.Title,
		Description:       remote.Description,
		SourceURL:         remote.SourceURL,
		ThumbnailURL:      remote.ThumbnailURL,
		DurationSeconds:   seconds,
		DurationFormatted: FormatDuration(seconds),
		ViewCount:         detail.ViewCount,
		PublishedAt:       remote.PublishedAt,
		IsShort:           IsShortForm(seconds),
		SourcePlatform:    platform,
		ApprovalState:     model.ApprovalAutoApproved,
	}
	if err := u.mediaRepo.Upsert(ctx, item); err != nil {
		return err
	}
	run.Created++
	return nil
}

// afterSync is best effort; a failed cache drop or event publish never fails
// the sync itself.
func (u *SyncUseCase) afterSync(ctx context.Context, ownerID string, platform model.Platform, run model.SyncRun) {
	if u.invalidator != nil {
		if err := u.invalidator.InvalidateOwner(ctx, ownerID); err != nil {
			logger.GetLogger().WithField("owner_id", ownerID).WithField("error", err).Warn("cache invalidation failed")
		}
	}
	for _, sink := range u.sinks {
		if sink == nil {
			continue
		}
		publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := sink.SyncCompleted(publishCtx, ownerID, platform, run); err != nil {
			logger.GetLogger().WithField("owner_id", ownerID).WithField("error", err).Warn("sync event publish failed")
		}
		cancel()
	}
}

package usecase

import (
	"context"
	"time"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/logger"
)

// ICredentialRefresher renews an expired access token for one platform.
// Platforms without a renewal path (long-lived, non-refreshable tokens)
// simply return an error.
type ICredentialRefresher interface {
	Refresh(ctx context.Context, account *model.IntegrationAccount) (accessToken string, expiry time.Time, err error)
}

// ITokenUseCase hands out access tokens that are valid right now.
type ITokenUseCase interface {
	// GetValidAccessToken returns a usable token for the owner's platform
	// account. An empty token with a nil error means the stored credential
	// is expired and cannot be renewed; the artist has to reconnect.
	// A missing account fails with model.ErrNotConnected.
	GetValidAccessToken(ctx context.Context, ownerID string, platform model.Platform) (string, error)
}

// TokenUseCase implements the token lifecycle over stored integration
// accounts. Concurrent refreshes race benignly: both grants succeed upstream
// and the last write wins.
type TokenUseCase struct {
	accountRepo repository.IIntegrationAccount
	refreshers  map[model.Platform]ICredentialRefresher
	now         func() time.Time
}

func NewTokenUseCase(accountRepo repository.IIntegrationAccount, refreshers map[model.Platform]ICredentialRefresher) ITokenUseCase {
	return &TokenUseCase{accountRepo: accountRepo, refreshers: refreshers, now: time.Now}
}

func (u *TokenUseCase) GetValidAccessToken(ctx context.Context, ownerID string, platform model.Platform) (string, error) {
	account, err := u.accountRepo.GetByOwnerAndPlatform(ctx, ownerID, platform)
	if err != nil {
		return "", err
	}
	if account.TokenValid(u.now()) {
		return account.AccessToken, nil
	}

	refresher, ok := u.refreshers[platform]
	if !ok {
		logger.GetLogger().WithField("platform", platform).Info("token expired and platform has no refresh path")
		return "", nil
	}
	accessToken, expiry, err := refresher.Refresh(ctx, account)
	if err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err).Warn("token refresh failed; reconnect required")
		return "", nil
	}
	if err := u.accountRepo.UpdateToken(ctx, ownerID, platform, accessToken, expiry); err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err).Error("persisting refreshed token failed")
		return "", err
	}
	return accessToken, nil
}

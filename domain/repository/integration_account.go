package repository

import (
	"context"
	"time"

	"artist-hub/domain/model"
)

// IIntegrationAccount manages linked platform accounts.
// The store enforces at most one row per (owner_id, platform).
type IIntegrationAccount interface {
	// Upsert creates or replaces the account for (owner_id, platform).
	Upsert(ctx context.Context, account *model.IntegrationAccount) error
	// GetByOwnerAndPlatform returns model.ErrNotConnected when no account exists.
	GetByOwnerAndPlatform(ctx context.Context, ownerID string, platform model.Platform) (*model.IntegrationAccount, error)
	// UpdateToken persists a refreshed access token and its expiry.
	UpdateToken(ctx context.Context, ownerID string, platform model.Platform, accessToken string, expiry time.Time) error
	// Delete removes the account (explicit disconnect).
	Delete(ctx context.Context, ownerID string, platform model.Platform) error
}

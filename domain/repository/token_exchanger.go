package repository

import (
	"context"

	"artist-hub/domain/model"
)

// ITokenExchanger performs the staged OAuth code exchange for one platform.
// Stages fail independently and are never retried; no partial credential is
// persisted - only a full success yields an IntegrationAccount write.
type ITokenExchanger interface {
	// ExchangeCode trades the authorization code for a short-lived token.
	// Fails with model.ErrTokenExchangeFailed.
	ExchangeCode(ctx context.Context, code string) (*model.ShortLivedToken, error)
	// ExchangeForLongLived upgrades the short-lived token.
	// Fails with model.ErrLongTokenExchangeFailed.
	ExchangeForLongLived(ctx context.Context, short *model.ShortLivedToken) (*model.LongLivedToken, error)
	// FetchProfile resolves the external account identity for the token.
	// Fails with model.ErrProfileFetchFailed.
	FetchProfile(ctx context.Context, accessToken string) (*model.ExternalProfile, error)
}

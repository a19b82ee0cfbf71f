package repository

import (
	"context"

	"artist-hub/domain/model"
)

// CatalogPageSize caps one remote listing call.
const CatalogPageSize = 50

// CatalogPage is one page of a remote catalog listing.
type CatalogPage struct {
	Items         []model.RemoteMediaItem
	NextPageToken string
}

// ICatalogSource retrieves a platform's published media catalog.
// Every failure wraps model.ErrRemoteFetchFailed; callers abort the current
// run and leave previously synced data untouched.
type ICatalogSource interface {
	// ResolveCollectionID maps the external account id to the collection
	// holding its published media (uploads playlist, user media edge).
	ResolveCollectionID(ctx context.Context, accountExternalID string) (string, error)
	// ListItems returns one page of at most CatalogPageSize items.
	ListItems(ctx context.Context, collectionID, pageToken string) (*CatalogPage, error)
	// FetchDetails looks up duration and view counts for ids in one batched
	// call (chunked internally when ids exceed the page size).
	FetchDetails(ctx context.Context, ids []string) (map[string]model.RemoteMediaDetail, error)
}

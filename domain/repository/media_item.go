package repository

import (
	"context"

	"artist-hub/domain/model"
)

// IMediaItem is the narrow persistence contract consumed by reconciliation.
// The store enforces a unique constraint on (external_id, owner_id).
type IMediaItem interface {
	// GetByNaturalKey returns model.ErrNotFound when no item exists.
	GetByNaturalKey(ctx context.Context, externalID, ownerID string) (*model.MediaItem, error)
	// Upsert inserts the full record or, on natural-key conflict, updates only
	// the mutable display fields (title, description, thumbnail_url,
	// view_count, updated_at).
	Upsert(ctx context.Context, item *model.MediaItem) error
	// ListByOwner returns a page ordered by published_at desc.
	// isShort filters by classification when non-nil.
	ListByOwner(ctx context.Context, ownerID string, isShort *bool, limit, offset int) ([]model.MediaItem, int64, error)
	// CountByOwnerAndClass returns item counts grouped by is_short.
	CountByOwnerAndClass(ctx context.Context, ownerID string) (shorts int64, videos int64, err error)
}

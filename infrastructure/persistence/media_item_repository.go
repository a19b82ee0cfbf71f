package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"artist-hub/domain/model"
)

const mediaItemColumns = `id, external_id, owner_id, title, description, source_url, thumbnail_url, duration_seconds, duration_formatted, view_count, published_at, is_short, source_platform, approval_state, created_at, updated_at`

type MediaItemRepository struct{ db *sql.DB }

func NewMediaItemRepository(db *sql.DB) *MediaItemRepository {
	return &MediaItemRepository{db: db}
}

func (r *MediaItemRepository) GetByNaturalKey(ctx context.Context, externalID, ownerID string) (*model.MediaItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaItemColumns+` FROM media_items WHERE external_id=$1 AND owner_id=$2`, externalID, ownerID)
	item, err := scanMediaItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Upsert inserts the full record; on natural-key conflict only the mutable
// display fields change. Duration, classification, source URL and approval
// state are immutable after creation.
func (r *MediaItemRepository) Upsert(ctx context.Context, item *model.MediaItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	q := `INSERT INTO media_items (external_id, owner_id, title, description, source_url, thumbnail_url, duration_seconds, duration_formatted, view_count, published_at, is_short, source_platform, approval_state, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		  ON CONFLICT (external_id, owner_id) DO UPDATE SET
			title=EXCLUDED.title,
			description=EXCLUDED.description,
			thumbnail_url=EXCLUDED.thumbnail_url,
			view_count=EXCLUDED.view_count,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q,
		item.ExternalID, item.OwnerID, item.Title, item.Description, item.SourceURL, item.ThumbnailURL,
		item.DurationSeconds, item.DurationFormatted, item.ViewCount, item.PublishedAt, item.IsShort,
		item.SourcePlatform, item.ApprovalState, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *MediaItemRepository) ListByOwner(ctx context.Context, ownerID string, isShort *bool, limit, offset int) ([]model.MediaItem, int64, error) {
	if limit <= 0 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	where := `WHERE owner_id=$1`
	args := []interface{}{ownerID}
	if isShort != nil {
		where += ` AND is_short=$2`
		args = append(args, *isShort)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM media_items `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM media_items %s ORDER BY published_at DESC NULLS LAST LIMIT $%d OFFSET $%d`,
		mediaItemColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.MediaItem, 0, limit)
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *item)
	}
	return out, total, rows.Err()
}

func (r *MediaItemRepository) CountByOwnerAndClass(ctx context.Context, ownerID string) (int64, int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT is_short, COUNT(1) FROM media_items WHERE owner_id=$1 GROUP BY is_short`, ownerID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var shorts, videos int64
	for rows.Next() {
		var isShort bool
		var count int64
		if err := rows.Scan(&isShort, &count); err != nil {
			return 0, 0, err
		}
		if isShort {
			shorts = count
		} else {
			videos = count
		}
	}
	return shorts, videos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMediaItem(row rowScanner) (*model.MediaItem, error) {
	item := &model.MediaItem{}
	var publishedAt sql.NullTime
	if err := row.Scan(&item.ID, &item.ExternalID, &item.OwnerID, &item.Title, &item.Description,
		&item.SourceURL, &item.ThumbnailURL, &item.DurationSeconds, &item.DurationFormatted,
		&item.ViewCount, &publishedAt, &item.IsShort, &item.SourcePlatform, &item.ApprovalState,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		item.PublishedAt = publishedAt.Time
	}
	return item, nil
}

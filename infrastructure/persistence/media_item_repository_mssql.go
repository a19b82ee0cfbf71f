package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"artist-hub/domain/model"
)

type MediaItemRepositoryMSSQL struct{ db *sql.DB }

func NewMediaItemRepositoryMSSQL(db *sql.DB) *MediaItemRepositoryMSSQL {
	return &MediaItemRepositoryMSSQL{db: db}
}

func (r *MediaItemRepositoryMSSQL) GetByNaturalKey(ctx context.Context, externalID, ownerID string) (*model.MediaItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaItemColumns+` FROM dbo.[media_items] WHERE external_id=@p1 AND owner_id=@p2`, externalID, ownerID)
	item, err := scanMediaItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *MediaItemRepositoryMSSQL) Upsert(ctx context.Context, item *model.MediaItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	// MERGE by (external_id, owner_id); matched rows only refresh display fields
	q := `MERGE dbo.[media_items] AS target
USING (VALUES (@p1, @p2)) AS src(external_id, owner_id)
ON target.external_id = src.external_id AND target.owner_id = src.owner_id
WHEN MATCHED THEN UPDATE SET
    title=@p3,
    description=@p4,
    thumbnail_url=@p6,
    view_count=@p9,
    updated_at=@p15
WHEN NOT MATCHED THEN
    INSERT (external_id, owner_id, title, description, source_url, thumbnail_url, duration_seconds, duration_formatted, view_count, published_at, is_short, source_platform, approval_state, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,@p11,@p12,@p13,@p14,@p15);`
	_, err := r.db.ExecContext(ctx, q,
		item.ExternalID, item.OwnerID, item.Title, item.Description, item.SourceURL, item.ThumbnailURL,
		item.DurationSeconds, item.DurationFormatted, item.ViewCount, item.PublishedAt, item.IsShort,
		string(item.SourcePlatform), string(item.ApprovalState), item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *MediaItemRepositoryMSSQL) ListByOwner(ctx context.Context, ownerID string, isShort *bool, limit, offset int) ([]model.MediaItem, int64, error) {
	if limit <= 0 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	where := `WHERE owner_id=@p1`
	args := []interface{}{ownerID}
	if isShort != nil {
		where += ` AND is_short=@p2`
		args = append(args, *isShort)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dbo.[media_items] `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM dbo.[media_items] %s ORDER BY published_at DESC OFFSET @p%d ROWS FETCH NEXT @p%d ROWS ONLY`,
		mediaItemColumns, where, len(args)+1, len(args)+2)
	listArgs := append(args, offset, limit)
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

func (r *MediaItemRepositoryMSSQL) CountByOwnerAndClass(ctx context.Context, ownerID string) (int64, int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT is_short, COUNT(1) FROM dbo.[media_items] WHERE owner_id=@p1 GROUP BY is_short`, ownerID)
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

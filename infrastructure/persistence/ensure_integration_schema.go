package persistence

import (
	"database/sql"
	"fmt"

	"artist-hub/infrastructure/logger"
)

// EnsureIntegrationSchema creates the integration tables for PostgreSQL if
// they do not exist. The unique indexes back the invariants the repositories
// rely on: one account per (owner_id, platform), one media item per
// (external_id, owner_id).
func EnsureIntegrationSchema(db *sql.DB) error {
	accounts := `CREATE TABLE IF NOT EXISTS integration_accounts (
        id BIGSERIAL PRIMARY KEY,
        owner_id TEXT NOT NULL,
        platform TEXT NOT NULL,
        external_account_id TEXT NOT NULL,
        external_display_name TEXT NOT NULL DEFAULT '',
        access_token TEXT NOT NULL,
        refresh_token TEXT NOT NULL DEFAULT '',
        token_expiry TIMESTAMPTZ NULL,
        connected_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT ux_integration_accounts_owner_platform UNIQUE (owner_id, platform)
    )`
	if _, err := db.Exec(accounts); err != nil {
		return fmt.Errorf("create integration_accounts table: %w", err)
	}

	items := `CREATE TABLE IF NOT EXISTS media_items (
        id BIGSERIAL PRIMARY KEY,
        external_id TEXT NOT NULL,
        owner_id TEXT NOT NULL,
        title TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL DEFAULT '',
        source_url TEXT NOT NULL DEFAULT '',
        thumbnail_url TEXT NOT NULL DEFAULT '',
        duration_seconds BIGINT NOT NULL DEFAULT 0,
        duration_formatted TEXT NOT NULL DEFAULT '',
        view_count BIGINT NOT NULL DEFAULT 0,
        published_at TIMESTAMPTZ NULL,
        is_short BOOLEAN NOT NULL DEFAULT FALSE,
        source_platform TEXT NOT NULL,
        approval_state TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT ux_media_items_external_owner UNIQUE (external_id, owner_id)
    )`
	if _, err := db.Exec(items); err != nil {
		return fmt.Errorf("create media_items table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_media_items_owner_published ON media_items(owner_id, published_at DESC)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_media_items_owner_published")
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_media_items_owner_short ON media_items(owner_id, is_short)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_media_items_owner_short")
	}
	return nil
}

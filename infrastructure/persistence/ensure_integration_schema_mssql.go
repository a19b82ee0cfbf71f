package persistence

import (
	"database/sql"
	"fmt"
)

// EnsureIntegrationSchemaMSSQL creates the integration tables for SQL Server
// if they do not exist.
func EnsureIntegrationSchemaMSSQL(db *sql.DB) error {
	accounts := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.integration_accounts') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[integration_accounts] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        owner_id NVARCHAR(128) NOT NULL,
        platform NVARCHAR(64) NOT NULL,
        external_account_id NVARCHAR(255) NOT NULL,
        external_display_name NVARCHAR(255) NOT NULL DEFAULT '',
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NOT NULL DEFAULT '',
        token_expiry DATETIME2 NULL,
        connected_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_integration_accounts_owner_platform ON dbo.[integration_accounts](owner_id, platform);
END`
	if _, err := db.Exec(accounts); err != nil {
		return fmt.Errorf("create integration_accounts (mssql): %w", err)
	}

	items := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.media_items') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[media_items] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        external_id NVARCHAR(255) NOT NULL,
        owner_id NVARCHAR(128) NOT NULL,
        title NVARCHAR(MAX) NOT NULL DEFAULT '',
        description NVARCHAR(MAX) NOT NULL DEFAULT '',
        source_url NVARCHAR(MAX) NOT NULL DEFAULT '',
        thumbnail_url NVARCHAR(MAX) NOT NULL DEFAULT '',
        duration_seconds BIGINT NOT NULL DEFAULT 0,
        duration_formatted NVARCHAR(32) NOT NULL DEFAULT '',
        view_count BIGINT NOT NULL DEFAULT 0,
        published_at DATETIME2 NULL,
        is_short BIT NOT NULL DEFAULT 0,
        source_platform NVARCHAR(64) NOT NULL,
        approval_state NVARCHAR(64) NOT NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_media_items_external_owner ON dbo.[media_items](external_id, owner_id);
    CREATE INDEX IX_media_items_owner_published ON dbo.[media_items](owner_id, published_at DESC);
END`
	if _, err := db.Exec(items); err != nil {
		return fmt.Errorf("create media_items (mssql): %w", err)
	}
	return nil
}

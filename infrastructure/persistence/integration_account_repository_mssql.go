package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"artist-hub/domain/model"
)

type IntegrationAccountRepositoryMSSQL struct{ db *sql.DB }

func NewIntegrationAccountRepositoryMSSQL(db *sql.DB) *IntegrationAccountRepositoryMSSQL {
	return &IntegrationAccountRepositoryMSSQL{db: db}
}

func (r *IntegrationAccountRepositoryMSSQL) Upsert(ctx context.Context, a *model.IntegrationAccount) error {
	now := time.Now().UTC()
	if a.ConnectedAt.IsZero() {
		a.ConnectedAt = now
	}
	a.UpdatedAt = now
	var exp sql.NullTime
	if a.TokenExpiry != nil {
		exp.Valid = true
		exp.Time = *a.TokenExpiry
	}
	// MERGE upsert by (owner_id, platform)
	q := `MERGE dbo.[integration_accounts] AS target
USING (VALUES (@p1, @p2)) AS src(owner_id, platform)
ON target.owner_id = src.owner_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    external_account_id=@p3,
    external_display_name=@p4,
    access_token=@p5,
    refresh_token=@p6,
    token_expiry=@p7,
    connected_at=@p8,
    updated_at=@p9
WHEN NOT MATCHED THEN
    INSERT (owner_id, platform, external_account_id, external_display_name, access_token, refresh_token, token_expiry, connected_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9);`
	_, err := r.db.ExecContext(ctx, q,
		a.OwnerID, string(a.Platform), a.ExternalAccountID, a.ExternalDisplayName,
		a.AccessToken, a.RefreshToken, exp, a.ConnectedAt, a.UpdatedAt)
	return err
}

func (r *IntegrationAccountRepositoryMSSQL) GetByOwnerAndPlatform(ctx context.Context, ownerID string, platform model.Platform) (*model.IntegrationAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, platform, external_account_id, external_display_name, access_token, refresh_token, token_expiry, connected_at, updated_at FROM dbo.[integration_accounts] WHERE owner_id=@p1 AND platform=@p2`, ownerID, string(platform))
	a := &model.IntegrationAccount{}
	var exp sql.NullTime
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Platform, &a.ExternalAccountID, &a.ExternalDisplayName, &a.AccessToken, &a.RefreshToken, &exp, &a.ConnectedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotConnected
		}
		return nil, err
	}
	if exp.Valid {
		a.TokenExpiry = &exp.Time
	}
	return a, nil
}

func (r *IntegrationAccountRepositoryMSSQL) UpdateToken(ctx context.Context, ownerID string, platform model.Platform, accessToken string, expiry time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[integration_accounts] SET access_token=@p1, token_expiry=@p2, updated_at=@p3 WHERE owner_id=@p4 AND platform=@p5`,
		accessToken, expiry, time.Now().UTC(), ownerID, string(platform))
	return err
}

func (r *IntegrationAccountRepositoryMSSQL) Delete(ctx context.Context, ownerID string, platform model.Platform) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[integration_accounts] WHERE owner_id=@p1 AND platform=@p2`, ownerID, string(platform))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotConnected
	}
	return nil
}

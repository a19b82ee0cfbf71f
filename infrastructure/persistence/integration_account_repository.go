package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"artist-hub/domain/model"
)

type IntegrationAccountRepository struct{ db *sql.DB }

func NewIntegrationAccountRepository(db *sql.DB) *IntegrationAccountRepository {
	return &IntegrationAccountRepository{db: db}
}

func (r *IntegrationAccountRepository) Upsert(ctx context.Context, a *model.IntegrationAccount) error {
	now := time.Now().UTC()
	if a.ConnectedAt.IsZero() {
		a.ConnectedAt = now
	}
	a.UpdatedAt = now
	q := `INSERT INTO integration_accounts (owner_id, platform, external_account_id, external_display_name, access_token, refresh_token, token_expiry, connected_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		  ON CONFLICT (owner_id, platform) DO UPDATE SET
			external_account_id=EXCLUDED.external_account_id,
			external_display_name=EXCLUDED.external_display_name,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			token_expiry=EXCLUDED.token_expiry,
			connected_at=EXCLUDED.connected_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, a.OwnerID, a.Platform, a.ExternalAccountID, a.ExternalDisplayName, a.AccessToken, a.RefreshToken, a.TokenExpiry, a.ConnectedAt, a.UpdatedAt)
	return err
}

func (r *IntegrationAccountRepository) GetByOwnerAndPlatform(ctx context.Context, ownerID string, platform model.Platform) (*model.IntegrationAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, platform, external_account_id, external_display_name, access_token, refresh_token, token_expiry, connected_at, updated_at FROM integration_accounts WHERE owner_id=$1 AND platform=$2`, ownerID, platform)
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

func (r *IntegrationAccountRepository) UpdateToken(ctx context.Context, ownerID string, platform model.Platform, accessToken string, expiry time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE integration_accounts SET access_token=$1, token_expiry=$2, updated_at=$3 WHERE owner_id=$4 AND platform=$5`,
		accessToken, expiry, time.Now().UTC(), ownerID, platform)
	return err
}

func (r *IntegrationAccountRepository) Delete(ctx context.Context, ownerID string, platform model.Platform) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM integration_accounts WHERE owner_id=$1 AND platform=$2`, ownerID, platform)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotConnected
	}
	return nil
}

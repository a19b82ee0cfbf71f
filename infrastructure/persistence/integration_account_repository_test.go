package persistence_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-hub/domain/model"
	"artist-hub/infrastructure/persistence"
)

func TestIntegrationAccountRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := time.Now().Add(time.Hour)
	account := &model.IntegrationAccount{
		OwnerID:             "artist-1",
		Platform:            model.PlatformYouTube,
		ExternalAccountID:   "channel-1",
		ExternalDisplayName: "Artist Channel",
		AccessToken:         "access",
		RefreshToken:        "refresh",
		TokenExpiry:         &expiry,
	}

	mock.ExpectExec("INSERT INTO integration_accounts").
		WithArgs(account.OwnerID, account.Platform, account.ExternalAccountID, account.ExternalDisplayName,
			account.AccessToken, account.RefreshToken, account.TokenExpiry, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := persistence.NewIntegrationAccountRepository(db)
	require.NoError(t, repo.Upsert(context.Background(), account))
	assert.False(t, account.ConnectedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationAccountRepository_GetByOwnerAndPlatform(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "platform", "external_account_id", "external_display_name", "access_token", "refresh_token", "token_expiry", "connected_at", "updated_at"}).
		AddRow(1, "artist-1", "youtube", "channel-1", "Artist Channel", "access", "refresh", now.Add(time.Hour), now, now)
	mock.ExpectQuery("SELECT (.+) FROM integration_accounts WHERE owner_id").
		WithArgs("artist-1", model.PlatformYouTube).
		WillReturnRows(rows)

	repo := persistence.NewIntegrationAccountRepository(db)
	account, err := repo.GetByOwnerAndPlatform(context.Background(), "artist-1", model.PlatformYouTube)

	require.NoError(t, err)
	assert.Equal(t, "channel-1", account.ExternalAccountID)
	require.NotNil(t, account.TokenExpiry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationAccountRepository_GetNotConnected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM integration_accounts WHERE owner_id").
		WithArgs("artist-1", model.PlatformInstagram).
		WillReturnError(context.Canceled)

	repo := persistence.NewIntegrationAccountRepository(db)
	_, err = repo.GetByOwnerAndPlatform(context.Background(), "artist-1", model.PlatformInstagram)
	assert.Error(t, err)

	db2, mock2, err := sqlmock.New()
	require.NoError(t, err)
	defer db2.Close()

	mock2.ExpectQuery("SELECT (.+) FROM integration_accounts WHERE owner_id").
		WithArgs("artist-1", model.PlatformInstagram).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo2 := persistence.NewIntegrationAccountRepository(db2)
	_, err = repo2.GetByOwnerAndPlatform(context.Background(), "artist-1", model.PlatformInstagram)
	assert.ErrorIs(t, err, model.ErrNotConnected)
}

func TestIntegrationAccountRepository_UpdateToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := time.Now().Add(time.Hour)
	mock.ExpectExec("UPDATE integration_accounts SET access_token").
		WithArgs("new-access", expiry, sqlmock.AnyArg(), "artist-1", model.PlatformYouTube).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := persistence.NewIntegrationAccountRepository(db)
	require.NoError(t, repo.UpdateToken(context.Background(), "artist-1", model.PlatformYouTube, "new-access", expiry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationAccountRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM integration_accounts").
		WithArgs("artist-1", model.PlatformYouTube).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM integration_accounts").
		WithArgs("artist-1", model.PlatformYouTube).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := persistence.NewIntegrationAccountRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "artist-1", model.PlatformYouTube))
	assert.ErrorIs(t, repo.Delete(context.Background(), "artist-1", model.PlatformYouTube), model.ErrNotConnected)
	require.NoError(t, mock.ExpectationsWereMet())
}

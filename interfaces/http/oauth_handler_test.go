package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/configuration"
	"artist-hub/infrastructure/statetoken"
	httpHandler "artist-hub/interfaces/http"
)

type memAccountRepo struct {
	upserted *model.IntegrationAccount
	deleted  bool
}

func (r *memAccountRepo) Upsert(_ context.Context, a *model.IntegrationAccount) error {
	copied := *a
	r.upserted = &copied
	return nil
}

func (r *memAccountRepo) GetByOwnerAndPlatform(_ context.Context, _ string, _ model.Platform) (*model.IntegrationAccount, error) {
	if r.upserted == nil {
		return nil, model.ErrNotConnected
	}
	return r.upserted, nil
}

func (r *memAccountRepo) UpdateToken(_ context.Context, _ string, _ model.Platform, _ string, _ time.Time) error {
	return nil
}

func (r *memAccountRepo) Delete(_ context.Context, _ string, _ model.Platform) error {
	if r.upserted == nil {
		return model.ErrNotConnected
	}
	r.upserted = nil
	r.deleted = true
	return nil
}

type countingExchanger struct {
	calls int
	fail  error
}

func (e *countingExchanger) ExchangeCode(_ context.Context, _ string) (*model.ShortLivedToken, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	return &model.ShortLivedToken{AccessToken: "short-token"}, nil
}

func (e *countingExchanger) ExchangeForLongLived(_ context.Context, _ *model.ShortLivedToken) (*model.LongLivedToken, error) {
	e.calls++
	return &model.LongLivedToken{AccessToken: "long-token", RefreshToken: "refresh-token", ExpiresInSeconds: 3600}, nil
}

func (e *countingExchanger) FetchProfile(_ context.Context, _ string) (*model.ExternalProfile, error) {
	e.calls++
	return &model.ExternalProfile{ExternalID: "channel-1", DisplayName: "Artist Channel"}, nil
}

func callbackRouter(t *testing.T) (*gin.Engine, *memAccountRepo, *countingExchanger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := &memAccountRepo{}
	exchanger := &countingExchanger{}
	codec := statetoken.NewCodec()
	handler := httpHandler.NewOAuthHandler(
		codec,
		accounts,
		map[model.Platform]repository.ITokenExchanger{model.PlatformYouTube: exchanger},
		map[model.Platform]httpHandler.AuthURLBuilder{
			model.PlatformYouTube: func(state string) string { return "https://accounts.example.com/consent?state=" + state },
		},
		nil,
	)

	router := gin.New()
	router.GET("/auth/:platform/callback", handler.Callback)
	router.GET("/connect/:platform", func(c *gin.Context) { c.Set("user_id", "artist-1") }, handler.GetAuthURL)
	router.DELETE("/integrations/:platform", func(c *gin.Context) { c.Set("user_id", "artist-1") }, handler.Disconnect)
	return router, accounts, exchanger
}

func encodeState(t *testing.T, issuedAt time.Time, returnURL string) string {
	t.Helper()
	state, err := statetoken.NewCodec().Encode(statetoken.Payload{
		ResourceID: "artist-1",
		OwnerID:    "artist-1",
		IssuedAt:   issuedAt,
		ReturnURL:  returnURL,
	})
	require.NoError(t, err)
	return state
}

func TestCallback_WebhookVerification(t *testing.T) {
	router, _, exchanger := callbackRouter(t)
	prev := configuration.C.OAuth.YouTube.VerifyToken
	configuration.C.OAuth.YouTube.VerifyToken = "verify-me"
	t.Cleanup(func() { configuration.C.OAuth.YouTube.VerifyToken = prev })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=challenge-42", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "challenge-42", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Zero(t, exchanger.calls)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCallback_DenialRedirectsWithoutExchange(t *testing.T) {
	router, accounts, exchanger := callbackRouter(t)

	rec := httptest.NewRecorder()
	state := encodeState(t, time.Now(), "")
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?error=access_denied&state="+state, nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=youtube_denied")
	assert.Zero(t, exchanger.calls)
	assert.Nil(t, accounts.upserted)
}

func TestCallback_InvalidState(t *testing.T) {
	router, _, exchanger := callbackRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?code=abc&state=%25not-base64", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=invalid_state")
	assert.Zero(t, exchanger.calls)
}

func TestCallback_ExpiredState(t *testing.T) {
	router, _, exchanger := callbackRouter(t)

	rec := httptest.NewRecorder()
	state := encodeState(t, time.Now().Add(-16*time.Minute), "/custom/return")
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?code=abc&state="+state, nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/custom/return?error=expired")
	assert.Zero(t, exchanger.calls)
}

func TestCallback_MissingCode(t *testing.T) {
	router, _, _ := callbackRouter(t)

	rec := httptest.NewRecorder()
	state := encodeState(t, time.Now(), "")
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?state="+state, nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=missing_params")
}

func TestCallback_SuccessStoresAccountAndRedirects(t *testing.T) {
	router, accounts, exchanger := callbackRouter(t)

	rec := httptest.NewRecorder()
	state := encodeState(t, time.Now(), "/artist/profile?tab=integrations")
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?code=auth-code&state="+state, nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/artist/profile?tab=integrations&success=youtube_connected", rec.Header().Get("Location"))
	assert.Equal(t, 3, exchanger.calls)

	require.NotNil(t, accounts.upserted)
	assert.Equal(t, "artist-1", accounts.upserted.OwnerID)
	assert.Equal(t, model.PlatformYouTube, accounts.upserted.Platform)
	assert.Equal(t, "channel-1", accounts.upserted.ExternalAccountID)
	assert.Equal(t, "Artist Channel", accounts.upserted.ExternalDisplayName)
	assert.Equal(t, "long-token", accounts.upserted.AccessToken)
	assert.Equal(t, "refresh-token", accounts.upserted.RefreshToken)
	require.NotNil(t, accounts.upserted.TokenExpiry)
}

func TestCallback_ExchangeFailure(t *testing.T) {
	router, accounts, exchanger := callbackRouter(t)
	exchanger.fail = model.ErrTokenExchangeFailed

	rec := httptest.NewRecorder()
	state := encodeState(t, time.Now(), "")
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?code=bad-code&state="+state, nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=token_exchange_failed")
	assert.Nil(t, accounts.upserted)
}

func TestGetAuthURL(t *testing.T) {
	router, _, _ := callbackRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/connect/youtube", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://accounts.example.com/consent?state=")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/connect/tiktok", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDisconnect(t *testing.T) {
	router, accounts, _ := callbackRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/integrations/youtube", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	accounts.upserted = &model.IntegrationAccount{OwnerID: "artist-1", Platform: model.PlatformYouTube}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/integrations/youtube", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, accounts.deleted)
}

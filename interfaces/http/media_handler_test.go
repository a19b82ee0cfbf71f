package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	httpHandler "artist-hub/interfaces/http"
	"artist-hub/usecase"
)

type stubSyncUseCase struct {
	run *model.SyncRun
	err error
}

func (s *stubSyncUseCase) SyncMedia(_ context.Context, _ string, _ model.Platform) (*model.SyncRun, error) {
	return s.run, s.err
}

type stubStatusUseCase struct {
	status *dto.IntegrationStatus
	page   *dto.CatalogPage
}

func (s *stubStatusUseCase) GetStatus(_ context.Context, _ string) (*dto.IntegrationStatus, error) {
	return s.status, nil
}

func (s *stubStatusUseCase) ListCatalog(_ context.Context, _ string, _ dto.CatalogListRequest) (*dto.CatalogPage, error) {
	return s.page, nil
}

func mediaRouter(sync usecase.ISyncUseCase, status usecase.IStatusUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httpHandler.NewMediaHandler(sync, status)
	router := gin.New()
	authed := router.Group("", func(c *gin.Context) { c.Set("user_id", "artist-1") })
	authed.POST("/integrations/:platform/sync", handler.Sync)
	authed.GET("/integrations/status", handler.Status)
	authed.GET("/media", handler.ListCatalog)
	return router
}

func TestSync_Success(t *testing.T) {
	router := mediaRouter(&stubSyncUseCase{run: &model.SyncRun{Created: 2, Updated: 3, Total: 5}}, &stubStatusUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrations/youtube/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 5, result.Total)
}

func TestSync_NotConnected(t *testing.T) {
	router := mediaRouter(&stubSyncUseCase{err: model.ErrNotConnected}, &stubStatusUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrations/instagram/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not connected")
}

func TestSync_ReconnectRequired(t *testing.T) {
	router := mediaRouter(&stubSyncUseCase{err: usecase.ErrReconnectRequired}, &stubStatusUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrations/youtube/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "reconnect")
}

func TestSync_UnknownPlatform(t *testing.T) {
	router := mediaRouter(&stubSyncUseCase{}, &stubStatusUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrations/vimeo/sync", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	status := &dto.IntegrationStatus{
		YouTube: dto.PlatformStatus{Connected: true, DisplayIdentity: "Artist Channel"},
		Counts:  dto.MediaCounts{Shorts: 4, Videos: 6, Total: 10},
	}
	router := mediaRouter(&stubSyncUseCase{}, &stubStatusUseCase{status: status})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/integrations/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":true`)
	assert.Contains(t, rec.Body.String(), `"total":10`)
}

func TestListCatalogEndpoint(t *testing.T) {
	page := &dto.CatalogPage{
		Items:    []model.MediaItem{{ExternalID: "vid-1", Title: "First", IsShort: true}},
		Total:    1,
		Page:     1,
		PageSize: 25,
	}
	router := mediaRouter(&stubSyncUseCase{}, &stubStatusUseCase{page: page})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media?filter=shorts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"external_id":"vid-1"`)
}

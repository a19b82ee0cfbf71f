package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-hub/domain/model"
	"artist-hub/infrastructure/utils"
	"artist-hub/interfaces/middleware"
)

type stubUserRepo struct {
	err error
}

func (r *stubUserRepo) GetByUserName(_ context.Context, userName string) (model.User, error) {
	return model.User{UserName: userName}, r.err
}

func authTestRouter(repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("", middleware.Auth(repo))
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func TestAuth_ValidToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	token, err := utils.GenerateToken(map[string]interface{}{"user_name": "bob", "iss": "artist-1"}, "test-secret")
	require.NoError(t, err)

	router := authTestRouter(&stubUserRepo{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"artist-1"`)
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authTestRouter(&stubUserRepo{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_BadToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	router := authTestRouter(&stubUserRepo{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongSigningKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	token, err := utils.GenerateToken(map[string]interface{}{"user_name": "bob", "iss": "artist-1"}, "other-secret")
	require.NoError(t, err)

	router := authTestRouter(&stubUserRepo{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UnknownUser(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	token, err := utils.GenerateToken(map[string]interface{}{"user_name": "ghost", "iss": "artist-1"}, "test-secret")
	require.NoError(t, err)

	router := authTestRouter(&stubUserRepo{err: errors.New("no rows")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"artist-hub/domain/repository"
	httpHandler "artist-hub/interfaces/http"
	"artist-hub/interfaces/middleware"
)

func InitiateRouter(
	oauthHandler httpHandler.IOAuthHandler,
	mediaHandler httpHandler.IMediaHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "https://localhost:4200", "http://localhost:4201", "https://localhost:4201"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Platform redirects and webhook handshakes land here unauthenticated.
	router.GET("/auth/:platform/callback", oauthHandler.Callback)

	router.POST("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/integrations/status", mediaHandler.Status)
	api.GET("/integrations/:platform/connect", oauthHandler.GetAuthURL)
	api.POST("/integrations/:platform/sync", mediaHandler.Sync)
	api.DELETE("/integrations/:platform", oauthHandler.Disconnect)
	api.GET("/media", mediaHandler.ListCatalog)

	return router
}

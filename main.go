package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/cache"
	instagramclient "artist-hub/infrastructure/clients/instagram"
	youtubeclient "artist-hub/infrastructure/clients/youtube"
	"artist-hub/infrastructure/configuration"
	"artist-hub/infrastructure/logger"
	"artist-hub/infrastructure/persistence"
	"artist-hub/infrastructure/pubsub"
	"artist-hub/infrastructure/servicebus"
	"artist-hub/infrastructure/statetoken"
	httpHandler "artist-hub/interfaces/http"
	"artist-hub/server"
	"artist-hub/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, vendor, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithField("vendor", vendor).WithField("ping", db.Ping()).Info("Database connected")

	var accountRepo repository.IIntegrationAccount
	var mediaRepo repository.IMediaItem
	var userRepo repository.IUser
	if vendor == "mssql" {
		if err := persistence.EnsureIntegrationSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Ensuring integration schema failed")
		}
		accountRepo = persistence.NewIntegrationAccountRepositoryMSSQL(db)
		mediaRepo = persistence.NewMediaItemRepositoryMSSQL(db)
		userRepo = persistence.NewUserRepositoryMSSQL(db)
	} else {
		if err := persistence.EnsureIntegrationSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Ensuring integration schema failed")
		}
		accountRepo = persistence.NewIntegrationAccountRepository(db)
		mediaRepo = persistence.NewMediaItemRepository(db)
		userRepo = persistence.NewUserRepository(db)
	}

	// Optional infrastructure; every client degrades to nil when unreachable.
	var statusCache *cache.StatusCache
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without status cache")
	} else {
		statusCache = cache.NewStatusCache(redisClient, time.Duration(configuration.C.Sync.CacheTTLSeconds)*time.Second)
	}

	var sinks []usecase.ISyncEventSink
	if configuration.C.Pubsub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without sync events")
		} else {
			sinks = append(sinks, pubsub.NewSyncEventPublisher(pubSubClient, configuration.C.Pubsub.Topic))
		}
	}
	if configuration.C.ServiceBus.Namespace != "" {
		azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without sync events")
		} else {
			sinks = append(sinks, servicebus.NewSyncEventSender(azServiceBusClient, configuration.C.ServiceBus.Queue))
		}
	}

	// Platform wiring. Platforms missing OAuth credentials stay unregistered
	// and their routes answer with "not configured".
	exchangers := map[model.Platform]repository.ITokenExchanger{}
	authURLs := map[model.Platform]httpHandler.AuthURLBuilder{}
	refreshers := map[model.Platform]usecase.ICredentialRefresher{}

	if configuration.C.OAuth.YouTube.Configured() {
		ytExchanger := youtubeclient.NewExchanger(configuration.C.OAuth.YouTube)
		exchangers[model.PlatformYouTube] = ytExchanger
		authURLs[model.PlatformYouTube] = ytExchanger.AuthCodeURL
		refreshers[model.PlatformYouTube] = youtubeclient.NewTokenRefresher(configuration.C.OAuth.YouTube)
	} else {
		logger.GetLogger().Info("YouTube OAuth not configured - platform disabled")
	}
	if configuration.C.OAuth.Instagram.Configured() {
		igExchanger := instagramclient.NewExchanger(configuration.C.OAuth.Instagram)
		exchangers[model.PlatformInstagram] = igExchanger
		authURLs[model.PlatformInstagram] = igExchanger.AuthCodeURL
		// Instagram long-lived tokens have no refresh grant.
	} else {
		logger.GetLogger().Info("Instagram OAuth not configured - platform disabled")
	}

	sourceFactory := func(ctx context.Context, platform model.Platform, accessToken string) (repository.ICatalogSource, error) {
		switch platform {
		case model.PlatformYouTube:
			return youtubeclient.NewCatalogSource(ctx, accessToken)
		case model.PlatformInstagram:
			return instagramclient.NewCatalogSource(accessToken), nil
		}
		return nil, fmt.Errorf("no catalog source for platform %q", platform)
	}

	// nil interfaces must stay nil, not typed-nil wrappers
	var invalidator usecase.ICatalogInvalidator
	var projCache usecase.IStatusCache
	if statusCache != nil {
		invalidator = statusCache
		projCache = statusCache
	}

	tokenUseCase := usecase.NewTokenUseCase(accountRepo, refreshers)
	syncUseCase := usecase.NewSyncUseCase(accountRepo, mediaRepo, tokenUseCase, sourceFactory, invalidator, sinks...)
	statusUseCase := usecase.NewStatusUseCase(accountRepo, mediaRepo, projCache)

	codec := statetoken.NewCodec()
	oauthHandler := httpHandler.NewOAuthHandler(codec, accountRepo, exchangers, authURLs, invalidator)
	mediaHandler := httpHandler.NewMediaHandler(syncUseCase, statusUseCase)

	router := server.InitiateRouter(oauthHandler, mediaHandler, userRepo)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase picks the vendor: MSSQL in production or when DB_VENDOR
// forces it, PostgreSQL otherwise.
func InitiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	if os.Getenv("DB_VENDOR") == "mssql" || env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, "", err
		}
		return db, "mssql", nil
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		return nil, "", err
	}
	return db, "psql", nil
}

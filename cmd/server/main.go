package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/config"
	"journal/internal/rbac/handler"
	"journal/internal/rbac/identity"
	"journal/internal/rbac/repository"
	"journal/internal/rbac/router"
	"journal/internal/rbac/service"
	"journal/internal/rbac/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	// 2. Init Store
	collections := repository.Collections{
		Roles:     cfg.RolesCollection,
		UserRoles: cfg.UserRolesCollection,
		AuditLogs: cfg.AuditLogsCollection,
		Posts:     cfg.PostsCollection,
		Likes:     cfg.LikesCollection,
		MapPoints: cfg.MapPointsCollection,
	}

	var store adapter.DocumentStore
	var client *mongo.Client
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		store = adapter.NewMemoryStore()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}

		mongoStore := adapter.NewMongoStore(client.Database(cfg.DBName))
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		if err := mongoStore.EnsureIndexes(ctx, adapter.IndexCollections{
			UserRoles: collections.UserRoles,
			Posts:     collections.Posts,
			AuditLogs: collections.AuditLogs,
			Likes:     collections.Likes,
			MapPoints: collections.MapPoints,
		}); err != nil {
			logger.Warn("Failed to ensure indexes", "error", err)
		}
		cancel()
		store = mongoStore
	}

	// 3. Init Layers
	repo := repository.NewDocumentRepository(store, collections)

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := handler.NewHTTPMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("Failed to register HTTP metrics", "error", err)
		os.Exit(1)
	}

	sessions := identity.NewContextProvider(cfg.SessionTTL, cfg.SessionMax)
	svc := service.NewService(repo, sessions, service.Options{
		Logger:      logger,
		Metrics:     metrics,
		OwnerEmails: cfg.OwnerEmails,
		MaxOwners:   cfg.MaxOwners,
		CacheTTL:    cfg.PermissionCacheTTL,
		CacheSize:   cfg.PermissionCacheSize,
	})

	var tokens *identity.TokenVerifier
	if cfg.JWTSecret != "" {
		tokens = identity.NewTokenVerifier(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set, trusting identity headers")
	}
	h := handler.NewHandler(svc, sessions, tokens, logger)

	// 4. Init Echo & Routes
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, httpMetrics)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	// Flush pending audit writes before the store goes away
	svc.Close()

	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect DB", "error", err)
		}
	}

	logger.Info("Server exited properly")
}

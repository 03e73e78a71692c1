package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogapp "github.com/listforge/backend/internal/application/catalog"
	generationapp "github.com/listforge/backend/internal/application/generation"
	researchapp "github.com/listforge/backend/internal/application/research"
	"github.com/listforge/backend/internal/infrastructure/aigen"
	"github.com/listforge/backend/internal/infrastructure/cache"
	"github.com/listforge/backend/internal/infrastructure/config"
	"github.com/listforge/backend/internal/infrastructure/logger"
	"github.com/listforge/backend/internal/infrastructure/persistence"
	"github.com/listforge/backend/internal/infrastructure/scheduler"
	"github.com/listforge/backend/internal/infrastructure/sourcing"
	"github.com/listforge/backend/internal/interfaces/http/handler"
	"github.com/listforge/backend/internal/interfaces/http/middleware"
	"github.com/listforge/backend/internal/interfaces/http/router"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to the database through the zap-backed GORM logger
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	marketplaceRepo := persistence.NewGormMarketplaceRepository(db.DB)
	productTypeRepo := persistence.NewGormProductTypeRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	sectionRepo := persistence.NewGormSectionRepository(db.DB)
	analysisRepo := persistence.NewGormAnalysisRepository(db.DB)
	reviewSetRepo := persistence.NewGormReviewSetRepository(db.DB)
	qaSetRepo := persistence.NewGormQASetRepository(db.DB)
	batchJobRepo := persistence.NewGormBatchJobRepository(db.DB)
	fetchJobRepo := persistence.NewGormFetchJobRepository(db.DB)

	// External providers
	structured, err := sourcing.NewRainforestAdapter(rainforestConfig(cfg))
	if err != nil {
		log.Fatal("Failed to initialize Rainforest adapter", zap.Error(err))
	}
	actor, err := sourcing.NewApifyAdapter(apifyConfig(cfg))
	if err != nil {
		log.Fatal("Failed to initialize Apify adapter", zap.Error(err))
	}
	// Runtime settings: admin-edited rows first, env fallback
	settings := config.NewFallbackSettings(
		config.NewStoreSettings(db.DB),
		config.NewEnvSettings("LISTFORGE"),
	)

	generator, err := aigen.NewOpenAIAdapterWithSettings(openAIConfig(cfg), settings)
	if err != nil {
		log.Fatal("Failed to initialize generation adapter", zap.Error(err))
	}

	// Batch progress cache; Redis is optional outside production
	var progress generationapp.ProgressCache
	redisCache, err := cache.NewRedisProgressCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory progress cache", zap.Error(err))
		progress = cache.NewInMemoryProgressCache()
	} else {
		defer func() {
			_ = redisCache.Close()
		}()
		progress = redisCache
	}

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo, listingRepo)
	marketplaceService := catalogapp.NewMarketplaceService(marketplaceRepo)
	productTypeService := catalogapp.NewProductTypeService(productTypeRepo, categoryRepo)
	phaseService := generationapp.NewPhaseService(
		listingRepo,
		sectionRepo,
		categoryRepo,
		marketplaceRepo,
		productTypeRepo,
		analysisRepo,
		generator,
		log,
	)
	batchService := generationapp.NewBatchService(batchJobRepo, phaseService, progress, log)
	fetchService := researchapp.NewFetchService(
		structured,
		actor,
		marketplaceRepo,
		reviewSetRepo,
		qaSetRepo,
		fetchJobRepo,
		log,
	)
	analysisService := researchapp.NewAnalysisService(analysisRepo, categoryRepo, marketplaceRepo, log)
	ingestService := researchapp.NewIngestService(qaSetRepo, marketplaceRepo, log)

	// Background sweeper for fetch jobs stuck in processing
	var sweeper *scheduler.StaleJobSweeper
	if cfg.Scheduler.Enabled {
		sweeper, err = scheduler.NewStaleJobSweeper(scheduler.StaleJobSweeperConfig{
			Enabled:  true,
			Interval: cfg.Scheduler.StaleSweepInterval,
		}, fetchService, log)
		if err != nil {
			log.Fatal("Failed to initialize stale job sweeper", zap.Error(err))
		}
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start stale job sweeper", zap.Error(err))
		}
	}

	// HTTP engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	// Handlers and routes
	systemHandler := handler.NewSystemHandler(db)
	systemHandler.RegisterRoutes(engine.Group(""))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewCatalogHandler(categoryService, marketplaceService, productTypeService)).
		Register(handler.NewListingHandler(phaseService)).
		Register(handler.NewBatchHandler(batchService)).
		Register(handler.NewResearchHandler(fetchService, analysisService)).
		Register(handler.NewIngestHandler(ingestService, cfg.Ingest.Key)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop stale job sweeper", zap.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func rainforestConfig(cfg *config.Config) *sourcing.RainforestConfig {
	rc := sourcing.NewRainforestConfig(cfg.Providers.RainforestAPIKey)
	if cfg.Providers.RainforestBaseURL != "" {
		rc.BaseURL = cfg.Providers.RainforestBaseURL
	}
	if cfg.Providers.Timeout > 0 {
		rc.Timeout = cfg.Providers.Timeout
	}
	return rc
}

func apifyConfig(cfg *config.Config) *sourcing.ApifyConfig {
	ac := sourcing.NewApifyConfig(
		cfg.Providers.ApifyAPIKey,
		cfg.Providers.ApifyReviewActor,
		cfg.Providers.ApifyQAActor,
		cfg.Providers.ApifyCatalogActor,
	)
	if cfg.Providers.ApifyBaseURL != "" {
		ac.BaseURL = cfg.Providers.ApifyBaseURL
	}
	if cfg.Providers.ApifyPollInterval > 0 {
		ac.PollInterval = cfg.Providers.ApifyPollInterval
	}
	if cfg.Providers.Timeout > 0 {
		ac.Timeout = cfg.Providers.Timeout
	}
	return ac
}

func openAIConfig(cfg *config.Config) *aigen.OpenAIConfig {
	oc := aigen.NewOpenAIConfig(cfg.Generation.APIKey)
	if cfg.Generation.BaseURL != "" {
		oc.BaseURL = cfg.Generation.BaseURL
	}
	if cfg.Generation.Model != "" {
		oc.Model = cfg.Generation.Model
	}
	if cfg.Generation.Timeout > 0 {
		oc.Timeout = cfg.Generation.Timeout
	}
	if cfg.Generation.Temperature > 0 {
		oc.Temperature = cfg.Generation.Temperature
	}
	return oc
}

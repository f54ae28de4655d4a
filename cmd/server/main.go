package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/dropship/backend/internal/application/pricing"
	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/dropship/backend/internal/infrastructure/event"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"github.com/dropship/backend/internal/infrastructure/persistence"
	"github.com/dropship/backend/internal/infrastructure/strategy"
	"github.com/dropship/backend/internal/infrastructure/telemetry"
	"github.com/dropship/backend/internal/interfaces/http/handler"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/dropship/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pricing settings service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	// Tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	pricingMetrics, err := telemetry.NewPricingMetrics(meterProvider.Meter("pricing"), log)
	if err != nil {
		log.Fatal("Failed to create pricing metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabaseWithLogLevel(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, dbSystem(cfg.Database.Driver), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.AutoMigrate || cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	ladderRepo := persistence.NewGormPriceLadderRepository(db.DB)

	// Published ladder cache
	ladderCache, closeCache := cache.NewPriceLadderCache(cfg.Redis, cfg.Pricing.CacheTTL, log)
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLadderCacheInvalidator(ladderCache))
	eventBus.Subscribe(event.NewLadderAuditLogger())
	eventBus.Subscribe(pricingMetrics)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Pricing
	opts, err := ladderOptions(cfg.Pricing)
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}
	strategies, err := strategy.NewRegistryWithDefaults(opts)
	if err != nil {
		log.Fatal("Failed to register pricing strategies", zap.Error(err))
	}
	ladderService := pricingapp.NewLadderService(
		ladderRepo,
		ladderCache,
		eventBus,
		strategies,
		pricingMetrics,
		pricingapp.Config{
			Options:          opts,
			AllowInvalidSave: cfg.Pricing.AllowInvalidSave,
			CacheTTL:         cfg.Pricing.CacheTTL,
		},
		log,
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(
		middleware.RequestID(),
		otelgin.Middleware(cfg.Telemetry.ServiceName),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", healthHandler(db))

	pricingHandler := handler.NewPricingHandler(ladderService, opts.MinGap)
	router.NewRouter(engine).
		Register(router.NewPricingRoutes(pricingHandler)).
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// ladderOptions builds the defaults of new ladders from configuration
func ladderOptions(cfg config.PricingConfig) (pricing.LadderOptions, error) {
	priceOp, err := pricing.ParseOperator(cfg.PriceOperator)
	if err != nil {
		return pricing.LadderOptions{}, err
	}
	price, err := pricing.NewFormula(priceOp, cfg.PriceOperand)
	if err != nil {
		return pricing.LadderOptions{}, err
	}

	comparedOp, err := pricing.ParseOperator(cfg.ComparedOperator)
	if err != nil {
		return pricing.LadderOptions{}, err
	}
	compared, err := pricing.NewFormula(comparedOp, cfg.ComparedOperand)
	if err != nil {
		return pricing.LadderOptions{}, err
	}

	opts := pricing.LadderOptions{
		MinGap:               cfg.MinGap,
		Currency:             cfg.Currency,
		PriceFormula:         price,
		ComparedPriceFormula: compared,
	}
	return opts, opts.Validate()
}

func dbSystem(driver string) string {
	if driver == "postgres" {
		return "postgresql"
	}
	return driver
}

// healthHandler reports database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

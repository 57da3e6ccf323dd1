package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsettlement "github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/application/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/auth"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/cache"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/config"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/logger"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/persistence"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/interfaces/http/handler"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/interfaces/http/middleware"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	counterparties := persistence.NewGormCounterpartyDirectory(db.DB)

	rateCache, err := cache.NewRateCacheFactory(cfg.Redis, cfg.Settlement.RateCacheTTL,
		cache.WithLogger(log),
	).CreateCache()
	if err != nil {
		return fmt.Errorf("create rate cache: %w", err)
	}
	defer func() {
		if err := rateCache.Close(); err != nil {
			log.Warn("failed to close rate cache", zap.Error(err))
		}
	}()

	currencies := cache.NewCachedCurrencyRegistry(
		persistence.NewGormCurrencyRegistry(db.DB),
		rateCache,
		cache.WithRegistryLogger(log),
	)

	converter := settlement.NewConverter(cfg.Settlement.FunctionalCurrency)
	service := appsettlement.NewSettlementService(
		invoiceRepo,
		settlementRepo,
		currencies,
		counterparties,
		converter,
		appsettlement.WithRateTolerance(decimal.NewFromFloat(cfg.Settlement.RateTolerance)),
		appsettlement.WithLogger(log),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	engine := buildEngine(cfg, log, db)

	router.NewRouter(engine).
		Register(handler.NewSettlementHandler(service)).
		Setup(middleware.JWTAuthMiddleware(jwtService))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("functional_currency", cfg.Settlement.FunctionalCurrency),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func buildEngine(cfg *config.Config, log *zap.Logger, db *persistence.Database) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
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
		middleware.CORSWithConfig(corsConfig),
	)

	engine.GET("/health", healthHandler(db))

	return engine
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

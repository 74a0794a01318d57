// @title ORCA Pricing API
// @version 1.0
// @description Internal API for jewelry pricing rules, component prices, price sheet calculation, and metal price feeds.
// @BasePath /internal
// @securityDefinitions.apikey InternalAPIKey
// @in header
// @name X-Internal-API-Key
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cdmasterk/orcafx/config"
	_ "github.com/cdmasterk/orcafx/docs"
	"github.com/cdmasterk/orcafx/internal/database"
	"github.com/cdmasterk/orcafx/internal/handlers"
	httpclient "github.com/cdmasterk/orcafx/internal/http"
	"github.com/cdmasterk/orcafx/internal/http/ratelimit"
	"github.com/cdmasterk/orcafx/internal/metals"
	"github.com/cdmasterk/orcafx/internal/metrics"
	"github.com/cdmasterk/orcafx/internal/middleware"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
	"github.com/cdmasterk/orcafx/internal/sweepers"
	"github.com/cdmasterk/orcafx/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting pricing service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.MustInit(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, dbURL); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Info().Msg("Migrations applied")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		database.PoolOptions{
			MaxConns:           cfg.Database.MaxConnections,
			MinConns:           cfg.Database.MinConnections,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
			Logger:             logger,
		},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	store := database.NewStore(database.Pool())
	recorder := metrics.NewRecorder()
	calc := pricing.NewCalculator(store, pricing.Config{DefaultTaxCountry: cfg.Pricing.DefaultTaxCountry}, recorder, logger)
	runner := recalc.NewRunner(calc, store, cfg.Pricing.RecalcConcurrency, recorder, logger)

	var (
		refresher    handlers.MetalRefresher
		metalSweeper *sweepers.MetalPriceSweeper
	)
	if cfg.Metals.APIKey != "" {
		hc := httpclient.NewClient(ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
		})
		svc := metals.NewService(metals.NewClient(hc, cfg.Metals.APIURL, cfg.Metals.APIKey), store, runner, recorder, logger)
		refresher = svc

		if cfg.Metals.RefreshInterval > 0 {
			metalSweeper = sweepers.NewMetalPriceSweeper(svc, logger, cfg.Metals.RefreshInterval, cfg.Pricing.RecalcOnMetalRefresh)
			go metalSweeper.Start(ctx)
		}
	} else {
		logger.Warn().Msg("METALPRICE_API_KEY not set, metal price refresh disabled")
	}

	handlers.InitPricing(store, calc, runner, refresher)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Server.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(cfg.Server.RequestsPerSecond, cfg.Server.Burst))
	handlers.RegisterInternalRoutes(internal)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info().Msg("Shutting down server...")
	if metalSweeper != nil {
		metalSweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", telemetry.DefaultServiceName).Logger()
	return &logger
}

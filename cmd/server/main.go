package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	documentapp "github.com/dms/backend/internal/application/document"
	ledgerapp "github.com/dms/backend/internal/application/ledger"
	paymentapp "github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/infrastructure/cache"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/dms/backend/internal/infrastructure/dealerapi"
	"github.com/dms/backend/internal/infrastructure/event"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/migration"
	"github.com/dms/backend/internal/infrastructure/persistence"
	"github.com/dms/backend/internal/infrastructure/printing"
	"github.com/dms/backend/internal/infrastructure/storage"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/dms/backend/internal/interfaces/http/handler"
	"github.com/dms/backend/internal/interfaces/http/middleware"
	"github.com/dms/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic("Failed to read .env: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting DMS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName(cfg),
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName(cfg),
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	paymentMetrics, err := telemetry.NewPaymentMetrics(meterProvider.Meter("dms/payment"))
	if err != nil {
		return err
	}

	// Database holds generated document records
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := migrateUp(db, cfg.Database.Driver, log); err != nil {
		return err
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled,
		LogFullSQL: cfg.App.Env == "development",
		DBSystem:   dbSystem(cfg.Database.Driver),
	}, log); err != nil {
		return err
	}
	log.Info("Database connected successfully")

	claims, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		return err
	}
	if closer, ok := claims.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	bus := event.NewInMemoryEventBus(log)
	audit := event.NewPaymentAuditHandler(log)
	bus.Subscribe(event.NewIdempotentHandler(audit, claims, shared.DefaultIdempotencyConfig(), log), audit.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := bus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	documents, err := newDocumentStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	renderer := printing.NewChromedpRenderer(cfg.Printing, log)
	defer renderer.Close()
	templates, err := printing.NewTemplateEngine()
	if err != nil {
		return err
	}

	client := dealerapi.NewClient(cfg.DealerAPI, log)

	documentService := documentapp.NewService(
		templates,
		renderer,
		documents,
		persistence.NewGormDocumentRepository(db.DB),
		documentapp.NewResolver(client, cfg.Printing.Location, log),
		client,
		documentapp.WithMetrics(paymentMetrics),
		documentapp.WithLogger(log),
		documentapp.WithRenderTimeout(cfg.Printing.Timeout),
	)
	paymentService := paymentapp.NewService(
		client,
		client,
		documentService,
		claims,
		paymentapp.NewConfig(cfg.Payment),
		paymentapp.WithLogger(log),
		paymentapp.WithMetrics(paymentMetrics),
		paymentapp.WithEventPublisher(bus),
	)
	ledgerService := ledgerapp.NewService(client, client, client, claims, ledgerapp.WithLogger(log))

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if pinger, ok := claims.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = pinger.Ping
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		defer limiter.Close()
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP:        cfg.HTTP,
		JWT:         auth.NewJWTService(cfg.JWT),
		Logger:      log,
		ServiceName: serviceName(cfg),
		Tracing:     cfg.Telemetry.Enabled,
		Meter:       meterProvider,
		RateLimiter: limiter,
	}, router.Handlers{
		Payment:     handler.NewPaymentHandler(paymentService),
		Document:    handler.NewDocumentHandler(documentService),
		Ledger:      handler.NewLedgerHandler(ledgerService),
		BankProfile: handler.NewBankProfileHandler(ledgerService),
		System:      handler.NewSystemHandler(cfg.App.Name, version, checks),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// migrateUp applies pending schema migrations on the server's own connection
func migrateUp(db *persistence.Database, driver string, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, driver, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func newDocumentStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (printing.DocumentStorage, error) {
	if cfg.Storage.Driver != "s3" {
		return printing.NewFileSystemStorage(cfg.Storage.BasePath, log)
	}
	s3, err := storage.NewS3DocumentStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}

func serviceName(cfg *config.Config) string {
	if cfg.Telemetry.ServiceName != "" {
		return cfg.Telemetry.ServiceName
	}
	return cfg.App.Name
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

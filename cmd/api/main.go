package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/laurel/config"
	"github.com/Ramsey-B/laurel/internal/repositories/cases"
	"github.com/Ramsey-B/laurel/internal/repositories/lawyers"
	"github.com/Ramsey-B/laurel/pkg/cache"
	"github.com/Ramsey-B/laurel/pkg/conflicts"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/graph"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/middleware"
	conflictroutes "github.com/Ramsey-B/laurel/pkg/routes/conflicts"
	"github.com/Ramsey-B/laurel/pkg/routes/health"
	"github.com/Ramsey-B/laurel/pkg/routes/names"
	"github.com/Ramsey-B/laurel/pkg/startup"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background()) //nolint:errcheck
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	db, err := connectDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database connect: %w", err)
	}
	defer db.Close()

	if err := runMigrations(cfg, logger, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	dbInstance := database.NewDatabaseInstance(db, logger)
	caseRepo := cases.NewRepository(dbInstance, logger)
	lawyerRepo := lawyers.NewRepository(dbInstance, logger)

	caches := cache.NewService(cache.Config{
		Enabled:       cfg.CacheEnabled,
		ReportTTL:     cfg.ReportCacheTTL,
		ReportMaxSize: cfg.ReportCacheMaxSize,
		LookupTTL:     cfg.LookupCacheTTL,
		SweepInterval: cfg.CacheSweepInterval,
	}, logger, time.Now)

	matcher := matching.NewMatcher(matching.Config{
		TransliterationEnabled: cfg.TransliterationEnabled,
		HighThreshold:          cfg.MatchHighThreshold,
		MediumThreshold:        cfg.MatchMediumThreshold,
		LowThreshold:           cfg.MatchLowThreshold,
		MinSimilarityLength:    cfg.MinSimilarityLength,
	}, logger)

	engine := conflicts.NewEngine(conflicts.EngineConfig{
		RelatedChecksEnabled: cfg.RelatedChecksEnabled,
	}, matcher, logger)

	var notifiers []conflicts.Notifier

	var producer *kafka.Producer
	if cfg.KafkaProducerEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close() //nolint:errcheck
		notifiers = append(notifiers, events.NewEmitter(producer, logger))
	}

	var graphClient *graph.Client
	if cfg.GraphEnabled {
		graphClient, err = graph.NewClient(graph.Config{
			Enabled:  cfg.GraphEnabled,
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return fmt.Errorf("graph connect: %w", err)
		}
		defer graphClient.Close(context.Background()) //nolint:errcheck
		notifiers = append(notifiers, graph.NewProjector(graphClient, logger))
	}

	service := conflicts.NewService(engine, caches, caseRepo, lawyerRepo, logger, notifiers...)

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(caches)
	if cfg.KafkaConsumerEnabled {
		consumer := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaCaseEventsTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, events.NewCaseChangeHandler(caches, logger))
		boot.AddDependency(consumer)
	}

	if err := boot.Start(ctx); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	e := newEcho(cfg, logger)

	checker := health.NewChecker(db, graphPinger(graphClient), cfg.Version)
	checker.Register(e)

	api := e.Group("/api/v1")
	conflictroutes.NewHandler(service).Register(api.Group("/conflicts"))
	names.NewHandler(matcher).Register(api.Group("/names"))

	errCh := make(chan error, 1)
	go func() {
		err := e.Start(fmt.Sprintf(":%d", cfg.Port))
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	checker.SetReady(true)

	logger.Info("service started",
		zap.String("app", cfg.AppName),
		zap.Int("port", cfg.Port),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.Error("dependency shutdown failed", zap.Error(err))
	}

	return nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func connectDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName,
		cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return db, nil
}

func runMigrations(cfg config.Config, logger *zap.Logger, db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	ms := database.NewMigrationService(logger.Sugar(), &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})

	return ms.Migrate(cfg.DatabaseName, driver)
}

func newEcho(cfg config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomw.Recover())

	return e
}

// graphPinger avoids handing the health checker a typed nil when the graph
// projection is disabled.
func graphPinger(client *graph.Client) health.GraphPinger {
	if client == nil {
		return nil
	}
	return client
}

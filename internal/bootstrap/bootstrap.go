// Package bootstrap assembles the full service dependency graph from
// configuration: extraction engine, infrastructure clients, application
// service, and HTTP server.  Both the API server binary and the CLI serve
// command build through it.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/DocFacts/internal/application/docfacts"
	"github.com/turtacn/DocFacts/internal/config"
	"github.com/turtacn/DocFacts/internal/infrastructure/database/redis"
	"github.com/turtacn/DocFacts/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/prometheus"
	storageminio "github.com/turtacn/DocFacts/internal/infrastructure/storage/minio"
	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
	httpiface "github.com/turtacn/DocFacts/internal/interfaces/http"
	"github.com/turtacn/DocFacts/internal/interfaces/http/handlers"
	"github.com/turtacn/DocFacts/internal/interfaces/http/middleware"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// App holds the assembled service.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Extractor factextractor.FactExtractor
	Service   docfacts.Service
	Server    *httpiface.Server

	redisClient *redis.Client
	producer    *kafka.Producer
	minioClient *storageminio.MinIOClient
}

// NewExtractor builds the extraction engine from configuration.  Pattern
// compile failures are logged and the affected patterns excluded; the
// engine still starts with the remaining table.
func NewExtractor(cfg config.ExtractorConfig, appMetrics *prometheus.AppMetrics, logger logging.Logger) (factextractor.FactExtractor, error) {
	library, compileErrs := factextractor.NewLibrary()
	for _, ce := range compileErrs {
		logger.Warn("pattern excluded from library", logging.String("pattern", ce.Name), logging.Err(ce))
	}

	var metrics factextractor.Metrics
	if appMetrics != nil {
		for _, ce := range compileErrs {
			appMetrics.PatternCompileFailures.WithLabelValues(ce.Name).Inc()
		}
		metrics = prometheus.NewExtractorMetrics(appMetrics, "service")
	}

	engineCfg := factextractor.DefaultExtractorConfig()
	if cfg.MaxTextLength > 0 {
		engineCfg.MaxTextLength = cfg.MaxTextLength
	}
	return factextractor.NewFactExtractor(library, engineCfg, metrics, logging.NewKVLogger(logger.Named("extractor")))
}

// New wires the complete application.  Optional infrastructure (redis,
// kafka) is skipped when disabled in configuration; MinIO is required.
func New(cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	app := &App{Config: cfg, Logger: logger}

	var collector prometheus.MetricsCollector
	var appMetrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		namespace := cfg.Metrics.Namespace
		if namespace == "" {
			namespace = "docfacts"
		}
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("bootstrap metrics: %w", err)
		}
		appMetrics = prometheus.NewAppMetrics(collector)
	}

	extractor, err := NewExtractor(cfg.Extractor, appMetrics, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap extractor: %w", err)
	}
	app.Extractor = extractor

	minioClient, err := storageminio.NewMinIOClient(&storageminio.Config{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Bucket:          cfg.MinIO.Bucket,
		MaxObjectSize:   cfg.MinIO.MaxObjectSize,
		PresignExpiry:   cfg.MinIO.PresignExpiry,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap minio: %w", err)
	}
	app.minioClient = minioClient
	documents := storageminio.NewDocumentRepository(minioClient, logger)

	var cache redis.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		app.redisClient = redisClient

		var opts []redis.CacheOption
		if cfg.Redis.KeyPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.KeyPrefix))
		}
		if cfg.Redis.DefaultTTL > 0 {
			opts = append(opts, redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		}
		cache = redis.NewRedisCache(redisClient, logger, opts...)
	}

	var publisher docfacts.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Acks:         acksName(cfg.Kafka.RequiredAcks),
			MaxRetries:   cfg.Kafka.ProducerRetries,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("bootstrap kafka: %w", err)
		}
		app.producer = producer
		publisher = producer
	}

	service, err := docfacts.NewService(extractor, documents, cache, publisher, logger, docfacts.ServiceConfig{
		CacheTTL:      cfg.Redis.DefaultTTL,
		Concurrency:   cfg.Worker.Concurrency,
		PerDocTimeout: cfg.Worker.PerDocTimeout,
		MaxBatchSize:  cfg.Worker.MaxBatchSize,
		JobRetention:  cfg.Worker.JobRetention,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap service: %w", err)
	}
	app.Service = service

	router := httpiface.NewRouter(httpiface.RouterConfig{
		ExtractHandler:   handlers.NewExtractHandler(service, logger),
		JobsHandler:      handlers.NewJobsHandler(service, logger),
		HealthHandler:    handlers.NewHealthHandler(Version, app.healthCheckers()...),
		Logger:           logger,
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		AppMetrics:       appMetrics,
		MetricsCollector: collector,
	})

	app.Server = httpiface.NewServer(httpiface.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	return app, nil
}

func acksName(requiredAcks int) string {
	switch requiredAcks {
	case 0:
		return "none"
	case 1:
		return "one"
	default:
		return "all"
	}
}

// healthCheckers wires each optional infrastructure client into the
// readiness probe.
func (a *App) healthCheckers() []handlers.HealthChecker {
	var checkers []handlers.HealthChecker
	if a.minioClient != nil {
		client := a.minioClient
		checkers = append(checkers, handlers.NewChecker("minio", func(ctx context.Context) error {
			status := client.HealthCheck(ctx)
			if !status.Healthy {
				return fmt.Errorf("minio unhealthy: %s", status.Error)
			}
			return nil
		}))
	}
	if a.redisClient != nil {
		client := a.redisClient
		checkers = append(checkers, handlers.NewChecker("redis", func(ctx context.Context) error {
			return client.Ping(ctx)
		}))
	}
	return checkers
}

// NewLoggerFromConfig builds the service logger from the log section of
// the configuration file.
func NewLoggerFromConfig(cfg config.LogConfig) (logging.Logger, error) {
	format := "json"
	if cfg.Format == "text" {
		format = "console"
	}
	logCfg := logging.LogConfig{
		Level:  cfg.Level,
		Format: format,
	}
	if cfg.Output != "" {
		logCfg.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(logCfg)
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM or a server
// error, then shuts everything down.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("signal received, shutting down", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			a.Logger.Error("http server failed", logging.Err(err))
			_ = a.Shutdown(context.Background())
			return err
		}
	}
	return a.Shutdown(context.Background())
}

// Shutdown stops the server and closes infrastructure clients.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Stop(ctx); err != nil {
			firstErr = err
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.minioClient != nil {
		if err := a.minioClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

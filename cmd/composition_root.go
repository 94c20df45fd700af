package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	httpin "tracking/internal/adapters/in/http"
	kafkain "tracking/internal/adapters/in/kafka"
	"tracking/internal/adapters/out/funfacts"
	"tracking/internal/adapters/out/holidays"
	kafkaout "tracking/internal/adapters/out/kafka"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/rediscache"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"
	"tracking/internal/ingestion"
	"tracking/internal/jobs"
	"tracking/internal/metrics"
	"tracking/internal/pkg/retry"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	transitionMaxAttempts = 5
	transitionBackoff     = time.Second
	transitionMaxBackoff  = 16 * time.Second

	ingestionMaxAttempts = 3
	ingestionBackoff     = time.Second
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger

	redis       *rediscache.RedisCache
	deadLetters *kafkaout.DeadLetterProducer
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, m *metrics.Metrics, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    m,
		logger:     logger,
	}
}

func (c *CompositionRoot) packageUoWFactory() commands.PackageUoWFactory {
	return FuncPackageUoWFactory(func() commands.PackageUoW {
		return c.uowFactory.Create()
	})
}

// TransitionRetryPolicy covers status updates and cancellation.
func (c *CompositionRoot) TransitionRetryPolicy() retry.Policy {
	p := retry.Exponential(transitionMaxAttempts, transitionBackoff, postgres.IsContention)
	p.MaxInterval = transitionMaxBackoff
	return p.WithOnRetry(c.onRetry("transition"))
}

// IngestionRetryPolicy covers recording a single tracking event.
func (c *CompositionRoot) IngestionRetryPolicy() retry.Policy {
	return retry.Fixed(ingestionMaxAttempts, ingestionBackoff, postgres.IsContention).
		WithOnRetry(c.onRetry("record_event"))
}

func (c *CompositionRoot) onRetry(operation string) func(err error, attempt int, wait time.Duration) {
	return func(err error, attempt int, wait time.Duration) {
		c.logger.Warn("retrying after contention",
			"operation", operation,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
		c.metrics.Retried(operation)
	}
}

// redisCache returns the shared client, or nil when no redis is configured.
func (c *CompositionRoot) redisCache() *rediscache.RedisCache {
	if c.cfg.RedisAddr == "" {
		return nil
	}
	if c.redis == nil {
		c.redis = rediscache.New(c.cfg.RedisAddr)
	}
	return c.redis
}

func (c *CompositionRoot) CreateEnricher() *services.Enricher {
	var holidayProvider ports.HolidayProvider = holidays.New(c.cfg.HolidayAPIURL, c.cfg.EnrichmentTimeout)
	if redis := c.redisCache(); redis != nil {
		holidayProvider = rediscache.NewHolidayCache(redis, holidayProvider, c.cfg.HolidayCacheTTL, c.logger)
	}

	return services.NewEnricher(
		holidayProvider,
		funfacts.New(c.cfg.FunFactAPIURL, c.cfg.EnrichmentTimeout),
		services.EnricherConfig{CountryCode: c.cfg.HolidayCountry, Timeout: c.cfg.EnrichmentTimeout},
		c.logger,
	)
}

func (c *CompositionRoot) CreateCreatePackageCommandHandler() *commands.CreatePackageCommandHandler {
	h := commands.NewCreatePackageCommandHandler(c.packageUoWFactory(), c.CreateEnricher(), commands.SystemClock)
	return &h
}

func (c *CompositionRoot) CreateUpdatePackageStatusCommandHandler() *commands.UpdatePackageStatusCommandHandler {
	h := commands.NewUpdatePackageStatusCommandHandler(c.packageUoWFactory(), c.TransitionRetryPolicy(), commands.SystemClock)
	return &h
}

func (c *CompositionRoot) CreateCancelPackageCommandHandler() *commands.CancelPackageCommandHandler {
	h := commands.NewCancelPackageCommandHandler(c.packageUoWFactory(), c.TransitionRetryPolicy(), commands.SystemClock)
	return &h
}

func (c *CompositionRoot) CreateRecordTrackingEventCommandHandler() *commands.RecordTrackingEventCommandHandler {
	h := commands.NewRecordTrackingEventCommandHandler(c.packageUoWFactory(), c.IngestionRetryPolicy(), commands.SystemClock)
	return &h
}

func (c *CompositionRoot) CreatePurgeDeliveredPackagesCommandHandler() *commands.PurgeDeliveredPackagesCommandHandler {
	h := commands.NewPurgeDeliveredPackagesCommandHandler(c.packageUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateGetPackageDetailsQueryHandler() queries.GetPackageDetailsQueryHandler {
	return queries.NewGetPackageDetailsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPackagesQueryHandler() queries.ListPackagesQueryHandler {
	return queries.NewListPackagesQueryHandler(c.gormDB)
}

// CreateDeadLetterPublisher returns nil when no kafka brokers are configured.
func (c *CompositionRoot) CreateDeadLetterPublisher() ports.DeadLetterPublisher {
	if len(c.cfg.KafkaBrokers) == 0 {
		return nil
	}
	if c.deadLetters == nil {
		c.deadLetters = kafkaout.NewDeadLetterProducer(c.cfg.KafkaBrokers, c.cfg.KafkaDeadLetterTopic)
	}
	return c.deadLetters
}

func (c *CompositionRoot) CreateIngestionPipeline(deadLetters ports.DeadLetterPublisher) *ingestion.Pipeline {
	return ingestion.NewPipeline(
		c.CreateRecordTrackingEventCommandHandler(),
		deadLetters,
		c.metrics,
		ingestion.Config{
			Workers:   c.cfg.IngestionWorkers,
			QueueSize: c.cfg.IngestionQueueSize,
		},
		c.logger,
	)
}

// CreateKafkaConsumer returns nil when no kafka brokers are configured.
func (c *CompositionRoot) CreateKafkaConsumer(
	queue kafkain.EventQueue,
	deadLetters ports.DeadLetterPublisher,
) *kafkain.Consumer {
	if len(c.cfg.KafkaBrokers) == 0 {
		return nil
	}
	return kafkain.NewConsumer(
		c.cfg.KafkaBrokers,
		c.cfg.KafkaTrackingEventsTopic,
		c.cfg.KafkaConsumerGroup,
		queue,
		deadLetters,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreatePurgeDeliveredPackagesCommandHandler(), c.cfg.PurgeSchedule, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer(events httpin.EventSubmitter) *httpin.Server {
	return httpin.NewServer(
		c.CreateCreatePackageCommandHandler(),
		c.CreateUpdatePackageStatusCommandHandler(),
		c.CreateCancelPackageCommandHandler(),
		c.CreateGetPackageDetailsQueryHandler(),
		c.CreateListPackagesQueryHandler(),
		events,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRouter(
	ctx context.Context,
	events httpin.EventSubmitter,
	gatherer prometheus.Gatherer,
) (*echo.Echo, error) {
	return httpin.NewRouter(ctx, c.CreateHTTPServer(events), c.metrics, gatherer, c.logger, c.HealthChecks()...)
}

// HealthChecks lists the optional dependencies /health verifies.
func (c *CompositionRoot) HealthChecks() []httpin.HealthCheck {
	var checks []httpin.HealthCheck
	if redis := c.redisCache(); redis != nil {
		checks = append(checks, redis.Ping)
	}
	return checks
}

// Close releases the redis and kafka clients created by the root.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.deadLetters != nil {
		errs = append(errs, c.deadLetters.Close())
	}
	return errors.Join(errs...)
}

type FuncPackageUoWFactory func() commands.PackageUoW

func (f FuncPackageUoWFactory) Create() commands.PackageUoW {
	return f()
}

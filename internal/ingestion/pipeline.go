// Package ingestion records tracking events asynchronously on a fixed pool of
// workers fed by a bounded queue.
//
// The accepting boundary returns as soon as an event is queued. Failures are
// logged, counted and optionally dead-lettered; they never reach the caller.
package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/metrics"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/retry"
)

const (
	DefaultWorkers      = 4
	DefaultQueueSize    = 64
	DefaultEventTimeout = 30 * time.Second
)

var (
	ErrQueueFull = errors.New("ingestion queue is full")
	ErrStopped   = errors.New("ingestion pipeline is stopped")
)

// EventRecorder persists one tracking event.
type EventRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordTrackingEventCommand) error
}

type Config struct {
	Workers   int
	QueueSize int
	// EventTimeout bounds a single event including all of its retries.
	EventTimeout time.Duration
}

type job struct {
	cmd    commands.RecordTrackingEventCommand
	source string
}

type Pipeline struct {
	recorder    EventRecorder
	deadLetters ports.DeadLetterPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	cfg         Config
	now         func() time.Time

	queue chan job
	wg    sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewPipeline builds a stopped pipeline. deadLetters may be nil.
func NewPipeline(
	recorder EventRecorder,
	deadLetters ports.DeadLetterPublisher,
	m *metrics.Metrics,
	cfg Config,
	logger *slog.Logger,
) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.EventTimeout <= 0 {
		cfg.EventTimeout = DefaultEventTimeout
	}

	return &Pipeline{
		recorder:    recorder,
		deadLetters: deadLetters,
		metrics:     m,
		logger:      logger.With("component", "ingestion_pipeline"),
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
		queue:       make(chan job, cfg.QueueSize),
	}
}

func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	for range p.cfg.Workers {
		p.wg.Add(1)
		go p.work()
	}

	p.logger.Info("Ingestion pipeline started", "workers", p.cfg.Workers, "queue_size", p.cfg.QueueSize)
}

// Stop refuses new events, lets the workers drain the queue and waits for them.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Ingestion pipeline stopped")
}

// Submit queues cmd without blocking. It returns ErrQueueFull when every slot is taken.
func (p *Pipeline) Submit(cmd commands.RecordTrackingEventCommand, source string) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- job{cmd: cmd, source: source}:
		p.accepted(source)
		return nil
	default:
		return ErrQueueFull
	}
}

// Enqueue queues cmd, waiting for a free slot until ctx is done.
func (p *Pipeline) Enqueue(ctx context.Context, cmd commands.RecordTrackingEventCommand, source string) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- job{cmd: cmd, source: source}:
		p.accepted(source)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) accepted(source string) {
	p.metrics.EventReceived(source)
	p.metrics.QueueDepth(len(p.queue))
}

func (p *Pipeline) work() {
	defer p.wg.Done()

	for j := range p.queue {
		p.metrics.QueueDepth(len(p.queue))
		p.process(j)
	}
}

func (p *Pipeline) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.EventTimeout)
	defer cancel()

	started := time.Now()
	err := p.recorder.Handle(ctx, j.cmd)
	elapsed := time.Since(started)

	if err == nil {
		p.metrics.EventProcessed(metrics.OutcomeRecorded, elapsed)
		p.logger.DebugContext(ctx, "Tracking event recorded",
			"package_id", j.cmd.PackageID().String(),
			"event_id", j.cmd.EventID().String(),
			"source", j.source,
		)
		return
	}

	outcome := metrics.OutcomeFailed
	if isRejection(err) {
		outcome = metrics.OutcomeRejected
	}
	p.metrics.EventProcessed(outcome, elapsed)

	attempts := attemptsOf(err)
	p.logger.ErrorContext(ctx, "Tracking event ingestion failed",
		"package_id", j.cmd.PackageID().String(),
		"event_id", j.cmd.EventID().String(),
		"source", j.source,
		"outcome", outcome,
		"attempts", attempts,
		"error", err,
	)

	p.publishDeadLetter(j, err, attempts)
}

func (p *Pipeline) publishDeadLetter(j job, cause error, attempts int) {
	if p.deadLetters == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.EventTimeout)
	defer cancel()

	err := p.deadLetters.PublishDeadLetter(ctx, ports.FailedTrackingEvent{
		PackageID:   j.cmd.PackageID().String(),
		Location:    j.cmd.Location(),
		Description: j.cmd.Description(),
		Timestamp:   j.cmd.Timestamp(),
		Reason:      cause.Error(),
		Attempts:    attempts,
		FailedAt:    p.now(),
	})
	p.metrics.DeadLetter(err == nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "Dead letter publish failed",
			"package_id", j.cmd.PackageID().String(),
			"error", err,
		)
	}
}

// isRejection reports failures caused by the event itself rather than by the store.
func isRejection(err error) bool {
	return errs.IsValidation(err) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, shipment.ErrEventPredatesPackage)
}

func attemptsOf(err error) int {
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Attempts
	}
	return 1
}

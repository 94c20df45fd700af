// Package kafka feeds tracking events published on a Kafka topic into the
// ingestion pipeline.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/ports"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const Source = "kafka"

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventQueue accepts commands, blocking while the queue is full.
type EventQueue interface {
	Enqueue(ctx context.Context, cmd commands.RecordTrackingEventCommand, source string) error
}

type Consumer struct {
	r           messageReader
	queue       EventQueue
	deadLetters ports.DeadLetterPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewConsumer joins groupID on topic. deadLetters may be nil.
func NewConsumer(
	brokers []string,
	topic string,
	groupID string,
	queue EventQueue,
	deadLetters ports.DeadLetterPublisher,
	logger *slog.Logger,
) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	}
	if groupID != "" {
		cfg.GroupTopics = []string{topic}
	} else {
		cfg.Topic = topic
	}
	return newConsumerWithReader(kafka.NewReader(cfg), queue, deadLetters, logger)
}

func newConsumerWithReader(
	r messageReader,
	queue EventQueue,
	deadLetters ports.DeadLetterPublisher,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		r:           r,
		queue:       queue,
		deadLetters: deadLetters,
		logger:      logger.With("component", "kafka_consumer"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (c *Consumer) Close() error {
	return c.r.Close()
}

type trackingEventMessage struct {
	PackageID   string `json:"packageId"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Run consumes until ctx is cancelled. A message is committed only after it
// is queued or dead-lettered as malformed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return pkgerrors.Wrap(err, "fetch message")
		}

		if err = c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err = c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return pkgerrors.Wrap(err, "commit message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var body trackingEventMessage
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		return c.reject(ctx, msg, body, fmt.Errorf("decode message: %w", err))
	}

	cmd, err := toCommand(msg, body)
	if err != nil {
		return c.reject(ctx, msg, body, err)
	}

	return c.queue.Enqueue(ctx, cmd, Source)
}

func toCommand(msg kafka.Message, body trackingEventMessage) (commands.RecordTrackingEventCommand, error) {
	packageID, err := kernel.UUIDFromString(body.PackageID)
	if err != nil {
		return commands.RecordTrackingEventCommand{}, err
	}

	timestamp, err := commands.ParseTimestamp("date", body.Date)
	if err != nil {
		return commands.RecordTrackingEventCommand{}, err
	}

	eventID, err := eventIDFor(msg)
	if err != nil {
		return commands.RecordTrackingEventCommand{}, err
	}

	return commands.NewRecordTrackingEventCommand(packageID, eventID, body.Location, body.Description, timestamp)
}

// eventIDFor derives the event id from the message position so a redelivered
// message maps onto the same row.
func eventIDFor(msg kafka.Message) (kernel.UUID, error) {
	name := fmt.Sprintf("kafka:%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	return kernel.RestoreUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)))
}

// reject dead-letters a malformed message. Publishing problems are logged and
// the message is still committed so one poison message cannot stall the partition.
func (c *Consumer) reject(ctx context.Context, msg kafka.Message, body trackingEventMessage, cause error) error {
	c.logger.WarnContext(ctx, "Rejected tracking event message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"package_id", body.PackageID,
		"error", cause,
	)

	if c.deadLetters == nil {
		return nil
	}

	// An unparseable date leaves Timestamp zero; the raw value is logged.
	timestamp, err := commands.ParseTimestamp("date", body.Date)
	if err != nil {
		c.logger.DebugContext(ctx, "Dead letter carries no timestamp", "date", body.Date, "error", err)
	}

	err = c.deadLetters.PublishDeadLetter(ctx, ports.FailedTrackingEvent{
		PackageID:   body.PackageID,
		Location:    body.Location,
		Description: body.Description,
		Timestamp:   timestamp,
		Reason:      cause.Error(),
		Attempts:    1,
		FailedAt:    c.now(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.ErrorContext(ctx, "Dead letter publish failed", "offset", msg.Offset, "error", err)
	}
	return nil
}

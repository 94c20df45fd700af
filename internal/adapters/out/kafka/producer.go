// Package kafka publishes failed tracking events to a dead-letter topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"tracking/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type DeadLetterProducer struct {
	w     messageWriter
	topic string
}

var _ ports.DeadLetterPublisher = (*DeadLetterProducer)(nil)

func NewDeadLetterProducer(brokers []string, topic string) *DeadLetterProducer {
	return &DeadLetterProducer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func newDeadLetterProducerWithWriter(w messageWriter, topic string) *DeadLetterProducer {
	return &DeadLetterProducer{w: w, topic: topic}
}

type deadLetter struct {
	PackageID   string    `json:"packageId"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
	FailedAt    time.Time `json:"failedAt"`
}

// PublishDeadLetter keys the message by package id so one package's failures stay ordered.
func (p *DeadLetterProducer) PublishDeadLetter(ctx context.Context, failed ports.FailedTrackingEvent) error {
	value, err := json.Marshal(deadLetter{
		PackageID:   failed.PackageID,
		Location:    failed.Location,
		Description: failed.Description,
		Date:        failed.Timestamp,
		Error:       failed.Reason,
		Attempts:    failed.Attempts,
		FailedAt:    failed.FailedAt,
	})
	if err != nil {
		return errors.Wrap(err, "encode dead letter")
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(failed.PackageID),
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

func (p *DeadLetterProducer) Close() error {
	return p.w.Close()
}

package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      []kafka.Message
	err       error
	i         int
	committed []kafka.Message
	commitErr error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.i < len(r.msgs) {
		m := r.msgs[r.i]
		r.i++
		return m, nil
	}
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return r.commitErr
}

func (r *fakeReader) Close() error { return nil }

type fakeQueue struct {
	cmds   []commands.RecordTrackingEventCommand
	source string
	err    error
}

func (q *fakeQueue) Enqueue(_ context.Context, cmd commands.RecordTrackingEventCommand, source string) error {
	if q.err != nil {
		return q.err
	}
	q.cmds = append(q.cmds, cmd)
	q.source = source
	return nil
}

type fakeDeadLetters struct {
	failed []ports.FailedTrackingEvent
}

func (d *fakeDeadLetters) PublishDeadLetter(_ context.Context, failed ports.FailedTrackingEvent) error {
	d.failed = append(d.failed, failed)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validEvent = `{"packageId":"5b0f3c1e-2a4d-4e7b-9f10-1c2d3e4f5a6b","location":"Belém","description":"Sorted","date":"2025-06-01T14:00:00"}`

func TestConsumer_Run_EnqueuesAndCommits(t *testing.T) {
	fr := &fakeReader{
		msgs: []kafka.Message{{Topic: "tracking.events", Partition: 2, Offset: 41, Value: []byte(validEvent)}},
		err:  errors.New("stop"),
	}
	q := &fakeQueue{}
	c := newConsumerWithReader(fr, q, nil, discard())

	err := c.Run(context.Background())

	require.ErrorContains(t, err, "fetch message")
	require.Len(t, q.cmds, 1)
	require.Equal(t, Source, q.source)
	require.Equal(t, "5b0f3c1e-2a4d-4e7b-9f10-1c2d3e4f5a6b", q.cmds[0].PackageID().String())
	require.Equal(t, "Belém", q.cmds[0].Location())
	require.Equal(t, time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), q.cmds[0].Timestamp())
	require.Len(t, fr.committed, 1)
}

func TestConsumer_EventIDIsStablePerMessagePosition(t *testing.T) {
	msg := kafka.Message{Topic: "tracking.events", Partition: 0, Offset: 7, Value: []byte(validEvent)}
	fr := &fakeReader{msgs: []kafka.Message{msg, msg, {Topic: "tracking.events", Offset: 8, Value: []byte(validEvent)}}, err: errors.New("stop")}
	q := &fakeQueue{}

	_ = newConsumerWithReader(fr, q, nil, discard()).Run(context.Background())

	require.Len(t, q.cmds, 3)
	require.True(t, q.cmds[0].EventID().IsEqual(q.cmds[1].EventID()))
	require.False(t, q.cmds[0].EventID().IsEqual(q.cmds[2].EventID()))
}

func TestConsumer_MalformedMessages_AreDeadLetteredAndCommitted(t *testing.T) {
	sent := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	testCases := []struct {
		name      string
		value     string
		timestamp time.Time
	}{
		{"not json", `{{`, time.Time{}},
		{"bad package id", `{"packageId":"42","location":"A","description":"B","date":"2025-06-01T14:00:00Z"}`, sent},
		{"missing location", `{"packageId":"5b0f3c1e-2a4d-4e7b-9f10-1c2d3e4f5a6b","description":"B","date":"2025-06-01T14:00:00Z"}`, sent},
		{"missing date", `{"packageId":"5b0f3c1e-2a4d-4e7b-9f10-1c2d3e4f5a6b","location":"A","description":"B"}`, time.Time{}},
		{"unparseable date", `{"packageId":"5b0f3c1e-2a4d-4e7b-9f10-1c2d3e4f5a6b","location":"A","description":"B","date":"soon"}`, time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fr := &fakeReader{msgs: []kafka.Message{{Value: []byte(tc.value)}}, err: errors.New("stop")}
			q := &fakeQueue{}
			dl := &fakeDeadLetters{}

			_ = newConsumerWithReader(fr, q, dl, discard()).Run(context.Background())

			require.Empty(t, q.cmds)
			require.Len(t, dl.failed, 1)
			require.NotEmpty(t, dl.failed[0].Reason)
			require.Equal(t, 1, dl.failed[0].Attempts)
			require.True(t, tc.timestamp.Equal(dl.failed[0].Timestamp))
			require.Len(t, fr.committed, 1)
		})
	}
}

func TestConsumer_EnqueueFailure_StopsWithoutCommit(t *testing.T) {
	want := errors.New("ingestion pipeline is stopped")
	fr := &fakeReader{msgs: []kafka.Message{{Value: []byte(validEvent)}}}
	c := newConsumerWithReader(fr, &fakeQueue{err: want}, nil, discard())

	err := c.Run(context.Background())

	require.ErrorIs(t, err, want)
	require.Empty(t, fr.committed)
}

func TestConsumer_CommitFailure(t *testing.T) {
	fr := &fakeReader{msgs: []kafka.Message{{Value: []byte(validEvent)}}, commitErr: errors.New("rebalance")}
	c := newConsumerWithReader(fr, &fakeQueue{}, nil, discard())

	err := c.Run(context.Background())

	require.ErrorContains(t, err, "commit message")
}

func TestConsumer_Run_ReturnsNilOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newConsumerWithReader(&fakeReader{}, &fakeQueue{}, nil, discard())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestNewConsumer_Close(t *testing.T) {
	c := NewConsumer([]string{"localhost:0"}, "t", "g", &fakeQueue{}, nil, discard())
	require.NotNil(t, c)
	require.NoError(t, c.Close())
}

// Package kafka publishes snapshot-update notifications so downstream
// consumers (push senders, cache invalidators) learn when a station's data
// changed.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Notifier produces one message per refreshed station snapshot.
type Notifier struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the given topic.
func NewNotifier(brokers []string, topic string, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Notifier{writer: w, logger: logger}
}

// updateEvent is the published payload.
type updateEvent struct {
	StationID string    `json:"station_id"`
	Rows      int       `json:"rows"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnapshotUpdated publishes a notification for one station. Failures are the
// caller's to log; a lost notification never rolls back the snapshot.
func (n *Notifier) SnapshotUpdated(ctx context.Context, stationID string, rows int) error {
	msg, err := serializeToMessage(updateEvent{
		StationID: stationID,
		Rows:      rows,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the producer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeToMessage marshals an update event into a Kafka message keyed by
// station id, so per-station ordering holds within a partition.
func serializeToMessage(ev updateEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize update event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.StationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "updated_at", Value: []byte(ev.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}

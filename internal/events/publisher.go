package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"example.com/exercisetracker/internal/observability"
)

// Publisher delivers exercise events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event ExerciseLogged) error
}

// NoopPublisher discards events. Used when no brokers are configured.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, ExerciseLogged) error { return nil }

// MessageWriter is satisfied by a topic-bound *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher encodes events as JSON keyed by user. It writes synchronously;
// wrap it in a Dispatcher to keep it off the request path.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher constructs a KafkaPublisher.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish writes the event with event_type and event_id headers.
func (p *KafkaPublisher) Publish(ctx context.Context, event ExerciseLogged) error {
	body, err := json.Marshal(event)
	if err != nil {
		observability.RecordPublish(false)
		return fmt.Errorf("encode %s: %w", ExerciseLoggedType, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ExerciseLoggedType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		observability.RecordPublish(false)
		return err
	}
	observability.RecordPublish(true)
	return nil
}

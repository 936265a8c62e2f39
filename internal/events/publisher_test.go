package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &stubWriter{}
	publisher := NewKafkaPublisher(writer)

	occurred := time.Date(2020, time.December, 12, 10, 0, 0, 0, time.UTC)
	event := ExerciseLogged{
		EventID:     "evt-1",
		RecordID:    "rec-1",
		UserID:      "user-1",
		Username:    "alice",
		Description: "swim",
		DurationMin: 20,
		Date:        occurred,
		OccurredAt:  occurred,
	}
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	require.Equal(t, "user-1", string(msg.Key))
	require.Equal(t, occurred, msg.Time)
	require.Equal(t, ExerciseLoggedType, header(msg, "event_type"))
	require.Equal(t, "evt-1", header(msg, "event_id"))

	var decoded ExerciseLogged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, "rec-1", decoded.RecordID)
	require.Equal(t, "alice", decoded.Username)
	require.Equal(t, 20, decoded.DurationMin)
	require.True(t, occurred.Equal(decoded.Date))
}

func TestKafkaPublisherReturnsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	publisher := NewKafkaPublisher(&stubWriter{err: boom})

	err := publisher.Publish(context.Background(), ExerciseLogged{UserID: "u"})
	require.ErrorIs(t, err, boom)
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.Publish(context.Background(), ExerciseLogged{}))
}

func TestNewTopicWriterDefaults(t *testing.T) {
	writer := NewTopicWriter(WriterConfig{Brokers: []string{"localhost:9092"}, Topic: "exercise_events"})
	t.Cleanup(func() { _ = writer.Close() })

	require.Equal(t, "exercise_events", writer.Topic)
	require.Equal(t, 10*time.Millisecond, writer.BatchTimeout)
	require.Equal(t, 5*time.Second, writer.WriteTimeout)
	require.Equal(t, 3, writer.MaxAttempts)
	require.Equal(t, kafka.RequireAll, writer.RequiredAcks)
	require.IsType(t, &kafka.Hash{}, writer.Balancer)

	tuned := NewTopicWriter(WriterConfig{Topic: "t", BatchTimeout: time.Millisecond, WriteTimeout: time.Second, MaxAttempts: 1})
	t.Cleanup(func() { _ = tuned.Close() })
	require.Equal(t, time.Millisecond, tuned.BatchTimeout)
	require.Equal(t, time.Second, tuned.WriteTimeout)
	require.Equal(t, 1, tuned.MaxAttempts)
}

type stubWriter struct {
	msgs []kafka.Message
	err  error
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

package events

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// WriterConfig tunes the Kafka writer that carries exercise events.
type WriterConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration // Zero means 10ms; kafka-go would otherwise hold a lone message for 1s.
	WriteTimeout time.Duration
	MaxAttempts  int
}

// NewTopicWriter builds a writer bound to cfg.Topic. Messages are hashed by key, so one
// user's events land on one partition in order.
func NewTopicWriter(cfg WriterConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		MaxAttempts:            attempts,
	}
}

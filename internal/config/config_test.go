package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "STORE_BACKEND", "KAFKA_BROKERS", "STORE_TIMEOUT", "MONGO_DATABASE", "EVENTS_BUFFER", "EVENTS_SEND_TIMEOUT", "EVENTS_BATCH_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddress != ":3000" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress)
	}
	if cfg.StoreBackend != BackendMongo {
		t.Fatalf("unexpected backend %q", cfg.StoreBackend)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected publishing disabled, got brokers %v", cfg.KafkaBrokers)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Fatalf("unexpected store timeout %s", cfg.StoreTimeout)
	}
	if cfg.MongoDatabase != "exercise_tracker" {
		t.Fatalf("unexpected database %q", cfg.MongoDatabase)
	}
	if cfg.EventsBuffer != 1024 || cfg.EventsSendTimeout != 5*time.Second || cfg.EventsBatchWait != 10*time.Millisecond {
		t.Fatalf("unexpected event settings buffer=%d send=%s batch=%s", cfg.EventsBuffer, cfg.EventsSendTimeout, cfg.EventsBatchWait)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("HTTP_MAX_BODY_BYTES", "2048")

	cfg := Load()
	if cfg.StoreBackend != BackendPostgres {
		t.Fatalf("unexpected backend %q", cfg.StoreBackend)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "kafka-1:9092" || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.StoreTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected store timeout %s", cfg.StoreTimeout)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected max body %d", cfg.MaxBodyBytes)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("HTTP_MAX_BODY_BYTES", "lots")

	cfg := Load()
	if cfg.StoreTimeout != 5*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.StoreTimeout)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected fallback body limit, got %d", cfg.MaxBodyBytes)
	}
}

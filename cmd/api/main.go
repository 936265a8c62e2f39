package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/exercisetracker/internal/api"
	"example.com/exercisetracker/internal/config"
	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/persistence/memory"
	"example.com/exercisetracker/internal/persistence/mongodb"
	"example.com/exercisetracker/internal/persistence/postgres"
	httptransport "example.com/exercisetracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore := buildRepository(ctx, cfg)
	defer closeStore()

	publisher, closePublisher := buildPublisher(cfg)
	defer closePublisher()

	directory := domain.NewDirectory(repo)
	service := domain.NewService(repo, repo, domain.WithPublisher(publisher))

	handler := api.NewHandler(directory, service, log.New(log.Writer(), "[api] ", log.LstdFlags))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, httptransport.Chain(mux,
		httptransport.RequestLogger(log.New(log.Writer(), "[http] ", log.LstdFlags)),
		httptransport.SecurityHeaders(),
		httptransport.CORS(cfg.CORSAllowedOrigin),
		httptransport.LimitBody(int64(cfg.MaxBodyBytes)),
	))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("exercise-tracker listening on %s (store=%s)", cfg.HTTPAddress, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func buildRepository(ctx context.Context, cfg config.Config) (domain.Repository, func()) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		repo := mongodb.NewRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Printf("ensure mongo indexes: %v", err)
		}
		log.Printf("using mongo repository (database=%s)", cfg.MongoDatabase)
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		}
	case config.BackendPostgres:
		connectCtx, connectCancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer connectCancel()

		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		if err := pool.Ping(connectCtx); err != nil {
			log.Fatalf("failed to ping postgres: %v", err)
		}
		repo := postgres.NewRepository(pool)
		if err := repo.EnsureSchema(connectCtx); err != nil {
			log.Fatalf("failed to apply postgres schema: %v", err)
		}
		log.Printf("using postgres repository")
		return repo, pool.Close
	case config.BackendMemory:
		log.Printf("using in-memory repository")
		return memory.NewRepository(), func() {}
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil, nil
	}
}

func buildPublisher(cfg config.Config) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Printf("KAFKA_BROKERS not set, exercise events disabled")
		return events.NoopPublisher{}, func() {}
	}

	writer := events.NewTopicWriter(events.WriterConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.EventsTopic,
		BatchTimeout: cfg.EventsBatchWait,
		WriteTimeout: cfg.EventsSendTimeout,
	})
	dispatcher := events.NewDispatcher(events.NewKafkaPublisher(writer), cfg.EventsBuffer, cfg.EventsSendTimeout,
		log.New(log.Writer(), "[events] ", log.LstdFlags))
	go dispatcher.Start()

	log.Printf("publishing exercise events to %s via %v", cfg.EventsTopic, cfg.KafkaBrokers)
	return dispatcher, func() {
		dispatcher.Close()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := dispatcher.Wait(ctx); err != nil {
			log.Printf("event backlog not drained: %v", err)
		}
		if err := writer.Close(); err != nil {
			log.Printf("kafka writer close: %v", err)
		}
	}
}

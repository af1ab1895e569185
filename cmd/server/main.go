package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/lib/pq"

	directorystore "teampulse/internal/directory/store"
	jwttoken "teampulse/internal/jwt_token"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/httpserver"
	"teampulse/internal/platform/logger"
	platformredis "teampulse/internal/platform/redis"
	"teampulse/internal/signals/handler"
	"teampulse/internal/signals/ingest"
	"teampulse/internal/signals/metrics"
	"teampulse/internal/signals/ports"
	"teampulse/internal/signals/scheduler"
	"teampulse/internal/signals/service"
	eventstore "teampulse/internal/signals/store/event"
	snapshotstore "teampulse/internal/signals/store/snapshot"
)

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		events    ports.EventStore
		snapshots ports.SnapshotStore
		resolver  ports.PopulationResolver
	)

	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err.Error())
			os.Exit(1)
		}
		for _, schema := range []string{eventstore.Schema, snapshotstore.Schema, directorystore.Schema} {
			if _, err := db.Exec(schema); err != nil {
				log.Error("apply schema", "error", err.Error())
				os.Exit(1)
			}
		}
		events = eventstore.NewPostgres(db)
		snapshots = snapshotstore.NewPostgres(db)
		resolver = directorystore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		events = eventstore.NewInMemory()
		snapshots = snapshotstore.NewInMemory()
		resolver = directorystore.NewInMemory()
		log.Info("using in-memory stores; data is lost on restart")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		snapshots = snapshotstore.NewCached(snapshots, redisClient.Client,
			snapshotstore.WithCacheTTL(cfg.SnapshotCacheTTL))
		log.Info("snapshot cache enabled")
	}

	signalMetrics := metrics.New()

	svc, err := service.New(events, snapshots, resolver,
		service.WithLogger(log),
		service.WithMetrics(signalMetrics),
		service.WithRunConcurrency(cfg.AggregationConcurrency),
	)
	if err != nil {
		log.Error("service init failed", "error", err.Error())
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "teampulse", "teampulse-api")
	jwtAdapter := jwttoken.NewJWTServiceAdapter(jwtService)

	router := chi.NewRouter()
	signalsHandler := handler.New(svc, log, jwtAdapter)
	signalsHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	sched := scheduler.New(svc, log, scheduler.WithInterval(cfg.AggregationInterval))
	sched.Start()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	var consumer *ingest.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer, err = ingest.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, events, log,
			ingest.WithTopic(cfg.KafkaTopic))
		if err != nil {
			log.Error("kafka consumer init failed", "error", err.Error())
			os.Exit(1)
		}
		go func() {
			if err := consumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("kafka consumer stopped", "error", err.Error())
			}
		}()
		log.Info("kafka ingestion enabled", "brokers", len(cfg.KafkaBrokers))
	}

	log.Info("starting teampulse", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()
	stopConsumer()
	if consumer != nil {
		_ = consumer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

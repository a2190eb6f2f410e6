package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"casenotes/internal/audit"
	"casenotes/internal/casenote/events"
	casenotehandler "casenotes/internal/casenote/handler"
	casenotemetrics "casenotes/internal/casenote/metrics"
	casenoteservice "casenotes/internal/casenote/service"
	notestore "casenotes/internal/casenote/store/note"
	jwttoken "casenotes/internal/jwt_token"
	typestore "casenotes/internal/notetype/store"
	"casenotes/internal/platform/config"
	"casenotes/internal/platform/httpserver"
	"casenotes/internal/platform/logger"
	platformmetrics "casenotes/internal/platform/metrics"
	"casenotes/internal/platform/middleware"
	"casenotes/internal/platform/postgres"
	platformredis "casenotes/internal/platform/redis"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Connect(cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var catalog casenoteservice.TypeCatalog = typestore.NewPostgres(db)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		catalog = typestore.NewRedisCache(catalog, redisClient, cfg.Redis.CatalogTTL, log)
		log.Info("note type catalog cache enabled", "ttl", cfg.Redis.CatalogTTL)
	}

	var publisher casenoteservice.EventPublisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			log.Error("failed to connect kafka producer", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("case note event publication enabled", "topic", cfg.Kafka.Topic)
	}

	svc := casenoteservice.New(
		notestore.NewPostgres(db),
		catalog,
		casenoteservice.WithLogger(log),
		casenoteservice.WithMetrics(casenotemetrics.New()),
		casenoteservice.WithEventPublisher(publisher),
		casenoteservice.WithAuditor(audit.NewRecorder(audit.NewSlogStore(log))),
		casenoteservice.WithStoreTx(newPostgresTx(db)),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "casenotes")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Latency(platformmetrics.New()))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	casenotehandler.New(svc, log, middleware.RequireAuth(jwtService, log)).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting casenotes server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

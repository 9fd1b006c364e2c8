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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"hemotrace/internal/access"
	"hemotrace/internal/jwttoken"
	"hemotrace/internal/platform/config"
	"hemotrace/internal/platform/httpserver"
	kafkaproducer "hemotrace/internal/platform/kafka/producer"
	"hemotrace/internal/platform/logger"
	"hemotrace/internal/platform/middleware"
	redisclient "hemotrace/internal/platform/redis"
	"hemotrace/internal/registry/cache"
	"hemotrace/internal/registry/handler"
	registrymetrics "hemotrace/internal/registry/metrics"
	"hemotrace/internal/registry/service"
	bloodstore "hemotrace/internal/registry/store/blood"
	donorstore "hemotrace/internal/registry/store/donor"
	"hemotrace/internal/registry/store/schema"
	transferstore "hemotrace/internal/registry/store/transfer"
	id "hemotrace/pkg/domain"
	audit "hemotrace/pkg/platform/audit"
	"hemotrace/pkg/platform/audit/publisher"
	kafkaaudit "hemotrace/pkg/platform/audit/store/kafka"
	auditmemory "hemotrace/pkg/platform/audit/store/memory"
	"hemotrace/pkg/platform/audit/worker"
)

// main wires stores, services, and transport, then runs the HTTP server and
// the audit worker until a shutdown signal arrives.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Entity stores: postgres when configured, in-memory otherwise.
	var (
		donors    service.DonorStore
		blood     service.BloodStore
		transfers service.TransferStore
		roles     access.RoleStore
		grants    access.GrantStore
		storeTx   service.StoreTx
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		if err := schema.Apply(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		donors = donorstore.NewPostgres(db)
		blood = bloodstore.NewPostgres(db)
		transfers = transferstore.NewPostgres(db)
		roles = access.NewPostgresRoleStore(db)
		grants = access.NewPostgresGrantStore(db)
		storeTx = newRegistryPostgresTx(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		donors = donorstore.NewInMemory()
		blood = bloodstore.NewInMemory()
		transfers = transferstore.NewInMemory()
		roles = access.NewInMemoryRoleStore()
		grants = access.NewInMemoryGrantStore()
	}

	// Audit sink: kafka when brokers are configured, in-process otherwise.
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkaproducer.New(ctx, kafkaproducer.Config{
			Brokers:      cfg.Kafka.Brokers,
			EnsureTopics: []string{cfg.Kafka.AuditTopic},
		})
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		auditStore = kafkaaudit.New(producer, cfg.Kafka.AuditTopic)
	}
	auditPublisher := publisher.New(256, log)
	auditWorker := worker.NewWorker(auditStore, auditPublisher.Inbox(), log)

	accessSvc := access.New(id.Identity(cfg.Owner), roles, grants,
		access.WithLogger(log),
		access.WithAuditPublisher(auditPublisher),
	)

	serviceOpts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(registrymetrics.New()),
	}
	if storeTx != nil {
		serviceOpts = append(serviceOpts, service.WithStoreTx(storeTx))
	}
	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		serviceOpts = append(serviceOpts,
			service.WithBasicInfoCache(cache.NewBasicInfoCache(rdb.Client, config.BasicInfoCacheTTL)))
	}
	registrySvc := service.New(donors, blood, transfers, accessSvc, serviceOpts...)

	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, "hemotrace", "hemotrace")
	h := handler.New(registrySvc, accessSvc, log)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Logger(log),
	)
	router.Handle("/metrics", promhttp.Handler())
	router.Group(h.RegisterPublic)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSvc, log))
		h.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := auditWorker.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting hemotrace", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ffwpu/internal/platform/config"
	platformmetrics "ffwpu/internal/platform/metrics"
	"ffwpu/internal/platform/migrations"
	"ffwpu/internal/platform/postgres"
	redisclient "ffwpu/internal/platform/redis"
	ratelimitmetrics "ffwpu/internal/ratelimit/metrics"
	ratelimit "ffwpu/internal/ratelimit/middleware"
	"ffwpu/internal/ratelimit/store/bucket"
	"ffwpu/internal/recovery/handler"
	recoverymetrics "ffwpu/internal/recovery/metrics"
	"ffwpu/internal/recovery/outbox"
	"ffwpu/internal/recovery/service"
	"ffwpu/internal/recovery/store/account"
	"ffwpu/internal/recovery/store/member"
	"ffwpu/pkg/platform/httputil"
	"ffwpu/pkg/platform/middleware/metadata"
	"ffwpu/pkg/platform/middleware/request"
	"ffwpu/pkg/platform/middleware/requesttime"
)

const recoverScope = "auth_recover"

type app struct {
	router  http.Handler
	relay   *outbox.Relay
	storage string
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// healthCheck reports a dependency as unhealthy when it returns an error.
type healthCheck func(ctx context.Context) error

type recoveryStores struct {
	members  service.MemberRegistry
	accounts service.AccountStore
	tx       service.AccountStoreTx
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{storage: "memory"}
	checks := map[string]healthCheck{}
	recMetrics := recoverymetrics.New()

	var stores recoveryStores
	if cfg.Database.URL != "" {
		handles, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = handles.Close() })
		checks["postgres"] = handles.Health

		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, handles.DB); err != nil {
				a.Close()
				return nil, err
			}
		}
		accounts := account.NewPostgres(handles.DB)
		stores = recoveryStores{members: member.NewPostgres(handles.Pool), accounts: accounts, tx: accounts}
		a.storage = "postgres"

		if len(cfg.Kafka.Brokers) > 0 {
			publisher, err := outbox.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AttemptsTopic)
			if err != nil {
				a.Close()
				return nil, err
			}
			a.closers = append(a.closers, publisher.Close)
			checks["kafka"] = publisher.Health
			if err := publisher.EnsureTopic(ctx, 1, 1); err != nil {
				log.WarnContext(ctx, "could not ensure attempts topic", "topic", cfg.Kafka.AttemptsTopic, "error", err)
			}
			a.relay, err = outbox.NewRelay(handles.DB, publisher,
				outbox.WithLogger(log),
				outbox.WithMetrics(recMetrics),
				outbox.WithInterval(cfg.Kafka.RelayInterval),
				outbox.WithBatchSize(cfg.Kafka.RelayBatch),
			)
			if err != nil {
				a.Close()
				return nil, err
			}
		}
	} else {
		members := member.NewInMemory()
		accounts := account.NewInMemory()
		if cfg.SeedDemo {
			if err := seedDemo(ctx, members, accounts); err != nil {
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			log.InfoContext(ctx, "seeded demo member and account")
		}
		stores = recoveryStores{members: members, accounts: accounts, tx: accounts}
	}

	var limiterStore ratelimit.Store = bucket.NewInMemoryBucketStore()
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		checks["redis"] = rdb.Health
		limiterStore = bucket.NewRedis(rdb)
	}

	svc, err := service.New(stores.members, stores.accounts, stores.tx,
		service.WithLogger(log),
		service.WithMetrics(recMetrics),
		service.WithDelivery(service.NewLogDelivery(log)),
		service.WithTokenTTL(cfg.Recovery.TokenTTL),
		service.WithExposeToken(cfg.Recovery.ExposeToken),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	limiter := ratelimit.New(limiterStore, cfg.Recovery.RateLimit, cfg.Recovery.RateWindow, log,
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata(cfg.TrustedProxies))
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(platformmetrics.New().Middleware)

	r.Get("/healthz", healthHandler(checks))
	r.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log).Register(r, limiter.RateLimit(recoverScope))

	a.router = r
	return a, nil
}

func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = "unavailable"
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}

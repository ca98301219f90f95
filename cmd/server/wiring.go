package main

import (
	"context"
	"fmt"
	"log/slog"

	"carelock/internal/care/store"
	"carelock/internal/care/store/memory"
	"carelock/internal/care/store/postgres"
	redisstore "carelock/internal/care/store/redis"
	"carelock/internal/care/store/sqlite"
	"carelock/internal/platform/config"
	platformpostgres "carelock/internal/platform/postgres"
	platformredis "carelock/internal/platform/redis"
	platformsqlite "carelock/internal/platform/sqlite"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/audit/publisher"
	"carelock/pkg/platform/audit/publishers/fallback"
	"carelock/pkg/platform/audit/publishers/kafka"
	auditmemory "carelock/pkg/platform/audit/store/memory"
	"carelock/pkg/platform/circuit"
)

// healthFunc reports whether the record store backend is reachable.
type healthFunc func(ctx context.Context) error

// openStore selects the record store backend and applies migrations.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store.Store, healthFunc, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := platformpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return store.New(postgres.New(db)), db.PingContext, func() { _ = db.Close() }, nil
	case config.StoreSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return store.New(sqlite.New(db)), db.PingContext, func() { _ = db.Close() }, nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.New(redisstore.New(client.Client)), client.Health, func() { _ = client.Close() }, nil
	case config.StoreMemory:
		log.Warn("using in-memory record store; records are lost on restart")
		return store.New(memory.New()), func(context.Context) error { return nil }, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// openAudit returns an async publisher over Kafka when brokers are set, and
// over an in-memory store otherwise. Kafka outages divert events to memory
// until the breaker closes again.
func openAudit(cfg config.Config, log *slog.Logger) (*publisher.Publisher, func(), error) {
	var (
		sink    audit.Store
		closeFn = func() {}
	)
	if len(cfg.Audit.KafkaBrokers) > 0 {
		client, err := kafka.NewClient(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		ks := kafka.New(client, cfg.Audit.KafkaTopic)
		sink = fallback.New(ks, auditmemory.NewInMemoryStore(), circuit.New("kafka-audit"), log)
		closeFn = ks.Close
		log.Info("audit events routed to kafka", "topic", cfg.Audit.KafkaTopic)
	} else {
		sink = auditmemory.NewInMemoryStore()
	}

	pub := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(log),
	)
	return pub, func() {
		pub.Close()
		closeFn()
	}, nil
}

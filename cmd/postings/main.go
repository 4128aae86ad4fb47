package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gigboard/internal/archive"
	"gigboard/internal/config"
	"gigboard/internal/events"
	"gigboard/internal/lifecycle"
	"gigboard/internal/store"
	"gigboard/internal/store/postgres"
	redisstore "gigboard/internal/store/redis"
	"gigboard/internal/telemetry"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	return events.Connect(cfg.NATSURL, cfg.NATSConnTimeout)
}

func newJobStore(cfg *config.Config) (store.JobStore, error) {
	db, err := postgres.Open(context.Background(), postgres.Config{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.PostgresMaxOpenConns,
		MaxIdleConns:    cfg.PostgresMaxIdleConns,
		ConnMaxLifetime: cfg.PostgresConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	return postgres.NewJobStore(db), nil
}

func newDraftStore(cfg *config.Config) store.DraftStore {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return redisstore.New(client, cfg.DraftTTL)
}

func newClickHouseConnection(cfg *config.Config) (clickhouse.Conn, error) {
	return archive.Open(context.Background(), archive.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	})
}

func newCoordinator(logger *zap.Logger, jobs store.JobStore, drafts store.DraftStore, publisher *events.Publisher) *lifecycle.Coordinator {
	return lifecycle.NewCoordinator(logger, jobs, drafts, lifecycle.WithNotifier(publisher))
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.CollectorURL)
	if err != nil {
		log.Fatal(err)
	}
	defer shutdownTracer()

	app := fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			newLogger,
			newNATSConnection,
			newJobStore,
			newDraftStore,
			newClickHouseConnection,
			events.NewPublisher,
			newCoordinator,
			events.NewHandler,
			archive.NewArchiver,
		),
		fx.Invoke(
			func(conn clickhouse.Conn) error {
				return archive.EnsureSchema(ctx, conn)
			},
			func(handler *events.Handler, lc fx.Lifecycle) error {
				return handler.RegisterSubscriptions(lc)
			},
			func(archiver *archive.Archiver, lc fx.Lifecycle) error {
				return archiver.RegisterSubscriptions(lc)
			},
		),
	)

	if err := app.Start(ctx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}

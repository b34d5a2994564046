// Package app wires configuration, stores, services and the HTTP router
// into a runnable exercise tracker.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/exercisetracker/exercise-tracker/internal/api"
	"github.com/exercisetracker/exercise-tracker/internal/api/handler"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
	"github.com/exercisetracker/exercise-tracker/internal/core/service"
	mongostore "github.com/exercisetracker/exercise-tracker/internal/infrastructure/db/mongo"
	redisstore "github.com/exercisetracker/exercise-tracker/internal/infrastructure/db/redis"
	"github.com/exercisetracker/exercise-tracker/internal/infrastructure/db/sqlite"
	"github.com/exercisetracker/exercise-tracker/internal/infrastructure/queue"
	"github.com/exercisetracker/exercise-tracker/internal/pkg/config"
)

type App struct {
	cfg *config.Config
	log zerolog.Logger

	mongo      *mongo.Client
	sqlite     *sql.DB
	redis      *goredis.Client
	dispatcher *queue.Dispatcher
	router     *echo.Echo
}

// stores groups the repositories of the selected STORE_DRIVER.
type stores struct {
	users  ports.UserRepository
	events ports.EventRepository
	checks map[string]handler.DependencyCheck
}

// New connects every configured dependency and builds the router. On error
// anything already opened is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var replay service.ReplayStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		replay = redisstore.NewExerciseReplayStore(rdb, cfg.Redis.IdempotencyTTL)
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_ADDR not set, Idempotency-Key handling disabled")
	}

	events := service.NewEventService(st.events, log.With().Str("component", "audit").Logger())
	a.dispatcher = queue.NewDispatcher(cfg.Audit.Workers, events, log.With().Str("component", "dispatcher").Logger())
	a.dispatcher.Start(context.Background())

	a.router = api.NewRouter(api.Options{
		Users:        service.NewUserService(st.users, log),
		Exercises:    service.NewExerciseService(st.users, replay, a.dispatcher, log),
		Logs:         service.NewLogService(st.users, log),
		Logger:       log,
		LegacyErrors: cfg.LegacyErrors,
		Checks:       st.checks,
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context) (*stores, error) {
	switch a.cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(a.cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		a.log.Info().Str("path", a.cfg.SQLite.Path).Msg("sqlite store opened")

		return &stores{
			users:  sqlite.NewUserRepository(db),
			events: sqlite.NewEventRepository(db),
			checks: map[string]handler.DependencyCheck{"sqlite": db.PingContext},
		}, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongo = client

		users := mongostore.NewUserRepository(db)
		events := mongostore.NewEventRepository(db)
		if err := ensureMongoIndexes(ctx, users, events); err != nil {
			_ = client.Disconnect(ctx)
			a.mongo = nil
			return nil, err
		}
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("mongodb store connected")

		return &stores{
			users:  users,
			events: events,
			checks: map[string]handler.DependencyCheck{
				"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", a.cfg.StoreDriver)
	}
}

func ensureMongoIndexes(ctx context.Context, users *mongostore.UserRepository, events *mongostore.EventRepository) error {
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := events.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure event indexes: %w", err)
	}
	return nil
}

// Migrate prepares the configured store's schema and indexes, then closes it.
func Migrate(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a := &App{cfg: cfg, log: log}
	if _, err := a.openStore(ctx); err != nil {
		return err
	}
	return a.Close(ctx)
}

func (a *App) Router() *echo.Echo {
	return a.router
}

// Close drains the audit dispatcher and releases every connection.
func (a *App) Close(ctx context.Context) error {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	if a.sqlite != nil {
		errs = append(errs, a.sqlite.Close())
	}
	return errors.Join(errs...)
}

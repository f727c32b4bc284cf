package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bhavishyakolloori/todolist-v1/internal/config"
	storepkg "github.com/Bhavishyakolloori/todolist-v1/internal/store"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store/memstore"
	storemongo "github.com/Bhavishyakolloori/todolist-v1/internal/store/mongo"
	storepg "github.com/Bhavishyakolloori/todolist-v1/internal/store/postgres"
	storesqlite "github.com/Bhavishyakolloori/todolist-v1/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// Network-backed drivers return immediately and run their bootstrap check in
// the background: an unreachable database is logged, never fatal.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.DBDriver {
	case "mongo", "postgres":
		go bootstrapAsync(ctx, cfg, log, st)
	}
	return st, nil
}

// OpenStore constructs the configured store without bootstrapping it.
// Mongo and postgres connect lazily, so this succeeds with the database down.
func OpenStore(ctx context.Context, cfg *config.Config) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "mongo":
		client, err := storemongo.Open(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo client: %w", err)
		}
		return storemongo.NewWithClient(client, cfg.MongoDatabase), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("TODO_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storepg.NewWithDB(db), nil
	case "sqlite":
		return storesqlite.New(cfg.SQLitePath)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

// Bootstrap runs the store's bootstrap synchronously with the configured timeout.
// Stores without a bootstrap step succeed immediately.
func Bootstrap(ctx context.Context, cfg *config.Config, st storepkg.Store) error {
	b, ok := st.(storepkg.Bootstrapper)
	if !ok {
		return nil
	}
	timeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	bootstrapCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return b.Bootstrap(bootstrapCtx)
}

func bootstrapAsync(ctx context.Context, cfg *config.Config, log zerolog.Logger, st storepkg.Store) {
	if err := Bootstrap(ctx, cfg, st); err != nil {
		log.Error().Stack().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap failed; continuing without database")
		return
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("store bootstrap completed")
}

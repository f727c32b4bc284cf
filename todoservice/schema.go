package todoservice

import (
	"context"

	"github.com/Bhavishyakolloori/todolist-v1/internal/config"
	"github.com/Bhavishyakolloori/todolist-v1/internal/factory"
	"github.com/Bhavishyakolloori/todolist-v1/internal/logger"
)

// Schema opens the configured store and runs its bootstrap (indexes or
// tables) once, failing when the database is unreachable.
func Schema(ctx context.Context) error {
	log := logger.New("todo-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	st, err := factory.OpenStore(ctx, cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer closeStore(st, log)

	if err := factory.Bootstrap(ctx, cfg, st); err != nil {
		log.Error().Stack().Err(err).Str("driver", cfg.DBDriver).Msg("schema bootstrap failed")
		return err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("schema ready")
	return nil
}

package fx

import (
	"context"
	"database/sql"

	"github.com/UPO33/MPMatch/internal/config"
	"github.com/UPO33/MPMatch/internal/database"
	"github.com/UPO33/MPMatch/internal/logger"
	"github.com/UPO33/MPMatch/internal/matchmaking"
	"github.com/UPO33/MPMatch/internal/monitoring"
	"github.com/UPO33/MPMatch/internal/notify"
	"github.com/UPO33/MPMatch/internal/repository"
	"github.com/UPO33/MPMatch/internal/server"
	"github.com/UPO33/MPMatch/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideSchemas(cfg *config.Config, logger zerolog.Logger) (map[string]matchmaking.Schema, error) {
	schemas, err := config.LoadSchemas(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	for name, s := range schemas {
		logger.Info().
			Str("queue", name).
			Str("mode", string(s.Mode)).
			Int("team_size", s.TeamSize).
			Int("max_team", s.MaxTeam).
			Dur("duration", s.Duration).
			Msg("queue schema loaded")
	}
	return schemas, nil
}

// CloseDatabase is registered before the matchmaker so the database outlives
// the final event drain on shutdown.
func CloseDatabase(lc fx.Lifecycle, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

// RunMatchmaker ties the tick loop to the app lifecycle.
func RunMatchmaker(lc fx.Lifecycle, svc *service.MatchmakerService, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := svc.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("matchmaker exited")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(ProvideSchemas),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewFailureRepository),
	// delivery
	fx.Provide(notify.New),
	fx.Provide(monitoring.NewMonitor),
	// svc
	fx.Provide(service.NewMatchmakerService),
	fx.Invoke(CloseDatabase),
	fx.Invoke(RunMatchmaker),
	// server
	fx.Provide(server.NewMatchmakerServer),
)

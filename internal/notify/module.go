package notify

import (
	"context"

	"github.com/UPO33/MPMatch/internal/config"
	"github.com/UPO33/MPMatch/internal/constants"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the notifier set enabled by cfg. With nothing configured the
// events are only stored and counted.
func New(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) Notifier {
	var out Multi

	if cfg.WebhookURL != "" {
		out = append(out, NewWebhookNotifier(cfg.WebhookURL))
		logger.Info().Str("url", cfg.WebhookURL).Msg("webhook notifier enabled")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		out = append(out, NewRedisNotifier(client, cfg.RedisChannel))

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				pingCtx, cancel := context.WithTimeout(ctx, constants.RedisTimeout)
				defer cancel()
				if err := client.Ping(pingCtx).Err(); err != nil {
					logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable, publishing will retry per event")
				}
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		logger.Info().Str("addr", cfg.RedisAddr).Str("channel", cfg.RedisChannel).Msg("redis notifier enabled")
	}

	if len(out) == 0 {
		return Nop{}
	}
	return out
}

package redis

import (
	"context"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"redis",
	fx.Provide(NewClientFx),
)

// NewClientFx returns nil when Redis is not configured; consumers fall back
// to in-process implementations
func NewClientFx(lc fx.Lifecycle, cfg *config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	if !cfg.Enabled() {
		log.Info().Msg("redis not configured, using in-process de-duplication and locking")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis connected")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing redis client...")
			return client.Close()
		},
	})

	return client, nil
}

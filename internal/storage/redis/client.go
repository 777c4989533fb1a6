package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-labs/portfolio-backend/config"
	"github.com/redis/go-redis/v9"
)

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Pinger adapts a redis client to the PingContext shape used by health checks.
type Pinger struct {
	Client redis.UniversalClient
}

func (p Pinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

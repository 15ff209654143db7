package checks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis pings a Redis server.
type Redis struct {
	name   string
	client redis.UniversalClient
}

func NewRedis(name string, client redis.UniversalClient) *Redis {
	return &Redis{name: name, client: client}
}

func (r *Redis) Name() string { return r.name }

func (r *Redis) Check(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// pkg/secrets/redis.go
package secrets

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisProvider struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// NewRedisProvider reads secrets from keys of the form tenant:{slug}:secret.
// Operators rotate a secret with a plain SET; the next issue request sees it.
func NewRedisProvider(rdb *redis.Client, log *zap.SugaredLogger) Provider {
	return &redisProvider{rdb: rdb, log: log}
}

func redisKey(tenant string) string { return "tenant:" + tenant + ":secret" }

func (p *redisProvider) LookupSecret(ctx context.Context, tenant string) (string, error) {
	s, err := p.rdb.Get(ctx, redisKey(tenant)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return s, nil
}

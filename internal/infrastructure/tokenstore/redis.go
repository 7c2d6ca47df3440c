package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis guarda un token por sesión de navegador (gateway).
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis crea el store; ttl es la vigencia de cada token guardado.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "facturapro:session:", ttl: ttl}
}

// For devuelve el TokenStore de una sesión.
func (r *Redis) For(sessionID string) *RedisToken {
	return &RedisToken{r: r, key: r.prefix + sessionID + ":token"}
}

// Ping verifica la conexión.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// RedisToken token de una sesión concreta.
type RedisToken struct {
	r   *Redis
	key string
}

func (t *RedisToken) Load(ctx context.Context) (string, error) {
	v, err := t.r.client.Get(ctx, t.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: redis get: %w", err)
	}
	return v, nil
}

func (t *RedisToken) Save(ctx context.Context, token string) error {
	if err := t.r.client.Set(ctx, t.key, token, t.r.ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set: %w", err)
	}
	return nil
}

func (t *RedisToken) Clear(ctx context.Context) error {
	if err := t.r.client.Del(ctx, t.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("tokenstore: redis del: %w", err)
	}
	return nil
}

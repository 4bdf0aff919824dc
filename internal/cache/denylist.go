package cache

import (
	"context"
	"time"
)

// Denylist guarda os jti de tokens encerrados via logout até expirarem.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func (c *RedisCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, keyRevokedToken(jti), 1, ttl).Err()
}

func (c *RedisCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, keyRevokedToken(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var (
	_ Cache    = (*RedisCache)(nil)
	_ Denylist = (*RedisCache)(nil)
	_ Cache    = Noop{}
	_ Denylist = Noop{}
)

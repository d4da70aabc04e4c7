// Package lock implementa ports.Locker sobre Redis (varias instancias) o en memoria (una instancia).
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

var _ ports.Locker = (*RedisLocker)(nil)

const keyPrefix = "dealroom:lock:"

// luaRelease borra la clave solo si el token coincide.
// KEYS[1]: clave del lock
// ARGV[1]: token del dueño
const luaRelease = `
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`

// RedisLocker lock con SET NX PX y liberación atómica por token.
type RedisLocker struct {
	client redis.UniversalClient
}

// NewRedisLocker construye el locker sobre un cliente existente.
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire toma la clave por ttl. Si otro la tiene devuelve error que envuelve domain.ErrConflict.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ports.ReleaseFunc, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, luaRelease, []string{keyPrefix + key}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

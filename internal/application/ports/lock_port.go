package ports

import (
	"context"
	"time"
)

// ReleaseFunc libera un lock adquirido. Liberar un lock ya vencido no es error.
type ReleaseFunc func(ctx context.Context) error

// Locker lock exclusivo por clave con TTL (Redis o en memoria).
// Si la clave está tomada devuelve un error que envuelve domain.ErrConflict.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

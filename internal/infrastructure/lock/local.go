package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/domain"
)

var _ ports.Locker = (*LocalLocker)(nil)

type localEntry struct {
	owner     uint64
	expiresAt time.Time
}

// LocalLocker lock en memoria; solo excluye dentro del mismo proceso.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]localEntry
	seq  uint64
	now  func() time.Time
}

// NewLocalLocker crea un locker vacío.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localEntry), now: time.Now}
}

// Acquire toma la clave por ttl. Una clave vencida se puede volver a tomar.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (ports.ReleaseFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.held[key]; ok && now.Before(e.expiresAt) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	l.seq++
	owner := l.seq
	l.held[key] = localEntry{owner: owner, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// si venció y otro la tomó, no se toca
		if e, ok := l.held[key]; ok && e.owner == owner {
			delete(l.held, key)
		}
		return nil
	}, nil
}

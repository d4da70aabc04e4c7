package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// PositionRepository define el puerto de persistencia para Position.
type PositionRepository interface {
	// CreateIfAbsent inserta la posición; devuelve false si ya existía una para (investor, vehicle).
	CreateIfAbsent(ctx context.Context, p *entity.Position) (bool, error)
}

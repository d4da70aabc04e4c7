package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// CloseRunRepository persiste el historial de ejecuciones de cierre.
type CloseRunRepository interface {
	Create(ctx context.Context, run *entity.CloseRun) error
	// List filtra por tipo/id de objetivo (vacío = sin filtro), más recientes primero.
	List(ctx context.Context, targetKind, targetID string, limit, offset int) ([]*entity.CloseRun, error)
}

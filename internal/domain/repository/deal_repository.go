package repository

import (
	"context"
	"time"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// DealRepository define el puerto de persistencia para Deal.
type DealRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	// ListReadyForClose deals con close_at <= asOf (día) y sin closed_processed_at.
	ListReadyForClose(ctx context.Context, asOf time.Time) ([]*entity.Deal, error)
	// MarkClosedProcessed fija closed_processed_at solo si estaba en NULL; devuelve false si ya estaba fijado.
	MarkClosedProcessed(ctx context.Context, id string, at time.Time) (bool, error)
}

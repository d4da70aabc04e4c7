package repository

import (
	"context"
	"time"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// TermsheetRepository define el puerto de persistencia para Termsheet (deal_fee_structures).
type TermsheetRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Termsheet, error)
	ListReadyForClose(ctx context.Context, asOf time.Time) ([]*entity.Termsheet, error)
	MarkClosedProcessed(ctx context.Context, id string, at time.Time) (bool, error)
}

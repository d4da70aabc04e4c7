package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.PositionRepository = (*PositionRepo)(nil)

// PositionRepo implementación de PositionRepository (usable con pool o tx).
type PositionRepo struct {
	q Querier
}

// NewPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPositionRepository(q Querier) *PositionRepo {
	return &PositionRepo{q: q}
}

// CreateIfAbsent inserta la posición; el índice único (investor_id, vehicle_id) descarta duplicados.
func (r *PositionRepo) CreateIfAbsent(ctx context.Context, p *entity.Position) (bool, error) {
	query := `
		INSERT INTO positions (id, investor_id, vehicle_id, units, cost_basis, as_of_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		ON CONFLICT (investor_id, vehicle_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.InvestorID, p.VehicleID, p.Units, p.CostBasis, dateUTC(p.AsOfDate), p.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert position: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

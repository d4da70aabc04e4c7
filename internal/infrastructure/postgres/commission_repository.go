package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.CommissionRepository = (*CommissionRepo)(nil)

// CommissionRepo escribe en la tabla de comisiones que corresponde al tipo de referente.
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

// Create inserta la comisión; el índice único (entidad, deal, inversionista) descarta duplicados.
func (r *CommissionRepo) Create(ctx context.Context, c *entity.Commission) (bool, error) {
	t, err := tablesFor(c.ReferrerKind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, deal_id, investor_id, subscription_id, fee_plan_id, basis_type,
		                rate_bps, base_amount, accrual_amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (%s, deal_id, investor_id) DO NOTHING`, t.commissions, t.column, t.column)
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.EntityID, c.DealID, c.InvestorID, nullIfEmpty(c.SubscriptionID), nullIfEmpty(c.FeePlanID), c.BasisType,
		c.RateBps, c.BaseAmount, c.AccrualAmount, nullIfEmpty(c.Currency), c.Status, c.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", t.commissions, err)
	}
	return tag.RowsAffected() == 1, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository (usable con pool o tx).
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// ListPendingActivation suscripciones funded sin activated_at, opcionalmente filtradas por inversionista.
func (r *SubscriptionRepo) ListPendingActivation(ctx context.Context, dealID string, investorIDs []string) ([]*entity.Subscription, error) {
	if investorIDs != nil && len(investorIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, investor_id, deal_id, vehicle_id, status, COALESCE(currency, ''),
		       commitment, funded_amount, num_shares, price_per_share, cost_per_share,
		       spread_per_share, spread_fee_amount, activated_at, created_at, updated_at
		FROM subscriptions
		WHERE deal_id = $1 AND status = $2 AND activated_at IS NULL`
	args := []any{dealID, entity.SubscriptionStatusFunded}
	if investorIDs != nil {
		query += ` AND investor_id = ANY($3::uuid[])`
		args = append(args, investorIDs)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending subscriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Subscription
	for rows.Next() {
		var s entity.Subscription
		if err := rows.Scan(
			&s.ID, &s.InvestorID, &s.DealID, &s.VehicleID, &s.Status, &s.Currency,
			&s.Commitment, &s.FundedAmount, &s.NumShares, &s.PricePerShare, &s.CostPerShare,
			&s.SpreadPerShare, &s.SpreadFeeAmount, &s.ActivatedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Activate actualiza estado, activated_at y spread; no toca suscripciones ya activadas.
func (r *SubscriptionRepo) Activate(ctx context.Context, sub *entity.Subscription) (bool, error) {
	query := `
		UPDATE subscriptions
		SET status            = $2,
		    activated_at      = $3,
		    spread_per_share  = COALESCE($4, spread_per_share),
		    spread_fee_amount = COALESCE($5, spread_fee_amount),
		    updated_at        = $3
		WHERE id = $1 AND activated_at IS NULL`
	tag, err := r.q.Exec(ctx, query, sub.ID, sub.Status, sub.ActivatedAt, sub.SpreadPerShare, sub.SpreadFeeAmount)
	if err != nil {
		return false, fmt.Errorf("activate subscription: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

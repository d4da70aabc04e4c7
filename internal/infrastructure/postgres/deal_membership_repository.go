package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.DealMembershipRepository = (*DealMembershipRepo)(nil)

// DealMembershipRepo implementación de DealMembershipRepository (usable con pool o tx).
type DealMembershipRepo struct {
	q Querier
}

// NewDealMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealMembershipRepository(q Querier) *DealMembershipRepo {
	return &DealMembershipRepo{q: q}
}

// ListInvestorIDsByTermsheet inversionistas con membresía atada al termsheet.
func (r *DealMembershipRepo) ListInvestorIDsByTermsheet(ctx context.Context, dealID, termsheetID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT investor_id
		FROM deal_memberships
		WHERE deal_id = $1 AND term_sheet_id = $2 AND investor_id IS NOT NULL`, dealID, termsheetID)
	if err != nil {
		return nil, fmt.Errorf("list termsheet investors: %w", err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan investor id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LatestReferral membresía más reciente (dispatched_at) que tiene referente.
func (r *DealMembershipRepo) LatestReferral(ctx context.Context, dealID, investorID string, termsheetID *string) (*entity.DealMembership, error) {
	query := `
		SELECT id, deal_id, user_id, investor_id, role,
		       COALESCE(referred_by_entity_type, ''), referred_by_entity_id,
		       assigned_fee_plan_id, term_sheet_id, dispatched_at, created_at
		FROM deal_memberships
		WHERE deal_id = $1 AND investor_id = $2
		  AND referred_by_entity_type IS NOT NULL AND referred_by_entity_id IS NOT NULL`
	args := []any{dealID, investorID}
	if termsheetID != nil {
		query += ` AND term_sheet_id = $3`
		args = append(args, *termsheetID)
	}
	query += ` ORDER BY dispatched_at DESC NULLS LAST, created_at DESC LIMIT 1`

	var m entity.DealMembership
	var kind string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.DealID, &m.UserID, &m.InvestorID, &m.Role,
		&kind, &m.ReferrerID,
		&m.AssignedFeePlanID, &m.TermSheetID, &m.DispatchedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest referral: %w", err)
	}
	m.ReferrerKind = entity.ReferrerKind(kind)
	return &m, nil
}

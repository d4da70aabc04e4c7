package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.FeePlanRepository = (*FeePlanRepo)(nil)

const feePlanColumns = `id, deal_id, term_sheet_id, name, status, is_active,
	introducer_id, partner_id, commercial_partner_id, invoice_requests_enabled, created_at, updated_at`

// FeePlanRepo implementación de FeePlanRepository (usable con pool o tx).
type FeePlanRepo struct {
	q Querier
}

// NewFeePlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFeePlanRepository(q Querier) *FeePlanRepo {
	return &FeePlanRepo{q: q}
}

// GetByID obtiene el plan con sus componentes.
func (r *FeePlanRepo) GetByID(ctx context.Context, id string) (*entity.FeePlan, error) {
	p, err := scanFeePlan(r.q.QueryRow(ctx, `SELECT `+feePlanColumns+` FROM fee_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fee plan: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, fee_plan_id, kind, rate_bps
		FROM fee_components WHERE fee_plan_id = $1 ORDER BY kind`, id)
	if err != nil {
		return nil, fmt.Errorf("list fee components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.FeeComponent
		if err := rows.Scan(&c.ID, &c.FeePlanID, &c.Kind, &c.RateBps); err != nil {
			return nil, fmt.Errorf("scan fee component: %w", err)
		}
		p.Components = append(p.Components, c)
	}
	return p, rows.Err()
}

// EnableInvoiceRequests habilita en bloque los planes aceptados que aún no lo estaban y los devuelve.
func (r *FeePlanRepo) EnableInvoiceRequests(ctx context.Context, dealID string, termsheetID *string) ([]*entity.FeePlan, error) {
	query := `
		UPDATE fee_plans
		SET invoice_requests_enabled = true, updated_at = now()
		WHERE deal_id = $1 AND status = $2 AND invoice_requests_enabled = false`
	args := []any{dealID, entity.FeePlanStatusAccepted}
	if termsheetID != nil {
		query += ` AND term_sheet_id = $3`
		args = append(args, *termsheetID)
	}
	query += ` RETURNING ` + feePlanColumns

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("enable invoice requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.FeePlan
	for rows.Next() {
		p, err := scanFeePlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fee plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanFeePlan(row pgxScanner) (*entity.FeePlan, error) {
	var p entity.FeePlan
	err := row.Scan(
		&p.ID, &p.DealID, &p.TermSheetID, &p.Name, &p.Status, &p.IsActive,
		&p.IntroducerID, &p.PartnerID, &p.CommercialPartnerID, &p.InvoiceRequestsEnabled,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

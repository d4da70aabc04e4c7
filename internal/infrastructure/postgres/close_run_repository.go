package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.CloseRunRepository = (*CloseRunRepo)(nil)

// CloseRunRepo implementación de CloseRunRepository (usable con pool o tx).
type CloseRunRepo struct {
	q Querier
}

// NewCloseRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCloseRunRepository(q Querier) *CloseRunRepo {
	return &CloseRunRepo{q: q}
}

// Create registra la ejecución.
func (r *CloseRunRepo) Create(ctx context.Context, run *entity.CloseRun) error {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	query := `
		INSERT INTO close_runs (id, target_kind, target_id, deal_id, success, marked,
		    subscriptions_activated, positions_created, commissions_created, certificates_triggered,
		    fee_plans_enabled, notifications_sent, accrual_notifications_sent, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.TargetKind, run.TargetID, run.DealID, run.Success, run.Marked,
		run.SubscriptionsActivated, run.PositionsCreated, run.CommissionsCreated, run.CertificatesTriggered,
		run.FeePlansEnabled, run.NotificationsSent, run.AccrualNotificationsSent, errs, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert close run: %w", err)
	}
	return nil
}

// List lista ejecuciones filtrando por tipo e id de objetivo (vacío = sin filtro).
func (r *CloseRunRepo) List(ctx context.Context, targetKind, targetID string, limit, offset int) ([]*entity.CloseRun, error) {
	var where []string
	var args []any
	if targetKind != "" {
		args = append(args, targetKind)
		where = append(where, fmt.Sprintf("target_kind = $%d", len(args)))
	}
	if targetID != "" {
		args = append(args, targetID)
		where = append(where, fmt.Sprintf("target_id = $%d", len(args)))
	}
	query := `
		SELECT id, target_kind, target_id, deal_id, success, marked,
		       subscriptions_activated, positions_created, commissions_created, certificates_triggered,
		       fee_plans_enabled, notifications_sent, accrual_notifications_sent, errors, started_at, finished_at
		FROM close_runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list close runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.CloseRun
	for rows.Next() {
		var c entity.CloseRun
		if err := rows.Scan(
			&c.ID, &c.TargetKind, &c.TargetID, &c.DealID, &c.Success, &c.Marked,
			&c.SubscriptionsActivated, &c.PositionsCreated, &c.CommissionsCreated, &c.CertificatesTriggered,
			&c.FeePlansEnabled, &c.NotificationsSent, &c.AccrualNotificationsSent, &c.Errors, &c.StartedAt, &c.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan close run: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

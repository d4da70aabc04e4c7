package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.TermsheetRepository = (*TermsheetRepo)(nil)

const termsheetColumns = `id, deal_id, version, status, completion_date, closed_processed_at, created_at, updated_at`

// TermsheetRepo persiste termsheets sobre la tabla deal_fee_structures.
type TermsheetRepo struct {
	q Querier
}

// NewTermsheetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTermsheetRepository(q Querier) *TermsheetRepo {
	return &TermsheetRepo{q: q}
}

// GetByID obtiene un termsheet por ID.
func (r *TermsheetRepo) GetByID(ctx context.Context, id string) (*entity.Termsheet, error) {
	t, err := scanTermsheet(r.q.QueryRow(ctx, `SELECT `+termsheetColumns+` FROM deal_fee_structures WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get termsheet: %w", err)
	}
	return t, nil
}

// ListReadyForClose termsheets con completion_date alcanzada y sin procesar.
func (r *TermsheetRepo) ListReadyForClose(ctx context.Context, asOf time.Time) ([]*entity.Termsheet, error) {
	query := `
		SELECT ` + termsheetColumns + `
		FROM deal_fee_structures
		WHERE completion_date IS NOT NULL AND completion_date <= $1::date AND closed_processed_at IS NULL
		ORDER BY completion_date, id`
	rows, err := r.q.Query(ctx, query, dateUTC(asOf))
	if err != nil {
		return nil, fmt.Errorf("list termsheets ready for close: %w", err)
	}
	defer rows.Close()
	var list []*entity.Termsheet
	for rows.Next() {
		t, err := scanTermsheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan termsheet: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// MarkClosedProcessed fija closed_processed_at solo si estaba vacío.
func (r *TermsheetRepo) MarkClosedProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE deal_fee_structures SET closed_processed_at = $2, updated_at = $2
		WHERE id = $1 AND closed_processed_at IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("mark termsheet closed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanTermsheet(row pgxScanner) (*entity.Termsheet, error) {
	var t entity.Termsheet
	if err := row.Scan(&t.ID, &t.DealID, &t.Version, &t.Status, &t.CompletionDate, &t.ClosedProcessedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

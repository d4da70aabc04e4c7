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

var _ repository.DealRepository = (*DealRepo)(nil)

const dealColumns = `id, name, COALESCE(currency, ''), vehicle_id, arranger_entity_id, status,
	close_at, closed_processed_at, created_at, updated_at`

// DealRepo implementación de DealRepository (usable con pool o tx).
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

// GetByID obtiene un deal por ID.
func (r *DealRepo) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	d, err := scanDeal(r.q.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// ListReadyForClose deals con fecha de cierre alcanzada y sin procesar.
func (r *DealRepo) ListReadyForClose(ctx context.Context, asOf time.Time) ([]*entity.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE close_at IS NOT NULL AND close_at <= $1::date AND closed_processed_at IS NULL
		ORDER BY close_at, id`
	rows, err := r.q.Query(ctx, query, dateUTC(asOf))
	if err != nil {
		return nil, fmt.Errorf("list deals ready for close: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// MarkClosedProcessed fija closed_processed_at solo si estaba vacío.
func (r *DealRepo) MarkClosedProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE deals SET closed_processed_at = $2, updated_at = $2
		WHERE id = $1 AND closed_processed_at IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("mark deal closed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanDeal(row pgxScanner) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(
		&d.ID, &d.Name, &d.Currency, &d.VehicleID, &d.ArrangerEntityID, &d.Status,
		&d.CloseAt, &d.ClosedProcessedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

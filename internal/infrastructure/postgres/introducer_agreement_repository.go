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

var _ repository.IntroducerAgreementRepository = (*IntroducerAgreementRepo)(nil)

// IntroducerAgreementRepo implementación de IntroducerAgreementRepository.
type IntroducerAgreementRepo struct {
	q Querier
}

// NewIntroducerAgreementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIntroducerAgreementRepository(q Querier) *IntroducerAgreementRepo {
	return &IntroducerAgreementRepo{q: q}
}

// GetInForce acuerdo activo y firmado cuya expiración (si tiene) no pasó a la fecha UTC.
func (r *IntroducerAgreementRepo) GetInForce(ctx context.Context, introducerID string, asOf time.Time) (*entity.IntroducerAgreement, error) {
	query := `
		SELECT id, introducer_id, status, signed_date, expiry_date
		FROM introducer_agreements
		WHERE introducer_id = $1 AND status = $2 AND signed_date IS NOT NULL
		  AND (expiry_date IS NULL OR expiry_date >= $3::date)
		ORDER BY signed_date DESC
		LIMIT 1`
	var a entity.IntroducerAgreement
	err := r.q.QueryRow(ctx, query, introducerID, entity.AgreementStatusActive, dateUTC(asOf)).Scan(
		&a.ID, &a.IntroducerID, &a.Status, &a.SignedDate, &a.ExpiryDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get introducer agreement: %w", err)
	}
	return &a, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// IntroducerAgreementRepository define el puerto de lectura de introducer_agreements.
type IntroducerAgreementRepository interface {
	// GetInForce acuerdo activo, firmado y no vencido a la fecha asOf (UTC). nil, nil si no hay.
	GetInForce(ctx context.Context, introducerID string, asOf time.Time) (*entity.IntroducerAgreement, error)
}

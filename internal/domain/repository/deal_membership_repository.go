package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// DealMembershipRepository define el puerto de lectura de deal_memberships.
type DealMembershipRepository interface {
	// ListInvestorIDsByTermsheet inversionistas vinculados a un termsheet concreto.
	ListInvestorIDsByTermsheet(ctx context.Context, dealID, termsheetID string) ([]string, error)
	// LatestReferral fila más reciente (por dispatched_at) con referente para el inversionista.
	// termsheetID nil = cualquier termsheet. Devuelve nil, nil si no hay referido.
	LatestReferral(ctx context.Context, dealID, investorID string, termsheetID *string) (*entity.DealMembership, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// FeePlanRepository define el puerto de persistencia para FeePlan y sus componentes.
type FeePlanRepository interface {
	// GetByID devuelve el plan con sus componentes.
	GetByID(ctx context.Context, id string) (*entity.FeePlan, error)
	// EnableInvoiceRequests activa invoice_requests_enabled en los planes aceptados del deal
	// (y del termsheet si se indica) que aún no lo tenían. Devuelve solo los planes modificados.
	EnableInvoiceRequests(ctx context.Context, dealID string, termsheetID *string) ([]*entity.FeePlan, error)
}

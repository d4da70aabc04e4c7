package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// CommissionRepository define el puerto de persistencia para las tablas de comisiones
// (introducer_commissions, partner_commissions, commercial_partner_commissions).
type CommissionRepository interface {
	// Create inserta la comisión en la tabla de su tipo. Devuelve false si ya existía
	// una fila para (entity_id, deal_id, investor_id).
	Create(ctx context.Context, c *entity.Commission) (bool, error)
}

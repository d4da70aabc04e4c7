package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// EntityUserRepository usuarios del portal vinculados a una entidad referente
// (introducer_users, partner_users, commercial_partner_users).
type EntityUserRepository interface {
	ListUserIDs(ctx context.Context, ref entity.Referrer) ([]string, error)
}

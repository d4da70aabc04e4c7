package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// ProfileRepository define el puerto de lectura de profiles.
type ProfileRepository interface {
	// GetInvestorContact perfil del usuario vinculado al inversionista en el deal. nil, nil si no hay.
	GetInvestorContact(ctx context.Context, dealID, investorID string) (*entity.Profile, error)
}

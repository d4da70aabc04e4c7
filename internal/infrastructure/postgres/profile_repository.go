package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// GetInvestorContact perfil del usuario de la membresía del inversionista en el deal.
func (r *ProfileRepo) GetInvestorContact(ctx context.Context, dealID, investorID string) (*entity.Profile, error) {
	query := `
		SELECT p.id, COALESCE(p.display_name, ''), COALESCE(p.email, '')
		FROM deal_memberships m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.deal_id = $1 AND m.investor_id = $2
		ORDER BY m.created_at
		LIMIT 1`
	var p entity.Profile
	err := r.q.QueryRow(ctx, query, dealID, investorID).Scan(&p.ID, &p.DisplayName, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get investor profile: %w", err)
	}
	return &p, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.EntityUserRepository = (*EntityUserRepo)(nil)

// EntityUserRepo lee los usuarios de introducers, partners y commercial partners.
type EntityUserRepo struct {
	q Querier
}

// NewEntityUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntityUserRepository(q Querier) *EntityUserRepo {
	return &EntityUserRepo{q: q}
}

// ListUserIDs usuarios vinculados a la entidad.
func (r *EntityUserRepo) ListUserIDs(ctx context.Context, ref entity.Referrer) ([]string, error) {
	t, err := tablesFor(ref.Kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT user_id FROM %s WHERE %s = $1 ORDER BY user_id`, t.users, t.column), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.users, err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// dateUTC fecha (sin hora) en UTC para comparar contra columnas DATE.
func dateUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// referrerTables tablas y columna de entidad por tipo de referente.
type referrerTables struct {
	commissions string
	users       string
	column      string
}

var referrerTableByKind = map[entity.ReferrerKind]referrerTables{
	entity.ReferrerIntroducer:        {commissions: "introducer_commissions", users: "introducer_users", column: "introducer_id"},
	entity.ReferrerPartner:           {commissions: "partner_commissions", users: "partner_users", column: "partner_id"},
	entity.ReferrerCommercialPartner: {commissions: "commercial_partner_commissions", users: "commercial_partner_users", column: "commercial_partner_id"},
}

func tablesFor(kind entity.ReferrerKind) (referrerTables, error) {
	t, ok := referrerTableByKind[kind]
	if !ok {
		return referrerTables{}, fmt.Errorf("tipo de referente desconocido %q", kind)
	}
	return t, nil
}

package entity

import "time"

// DealMembership vincula un inversionista (y su usuario) a un deal, con la atribución de referido.
type DealMembership struct {
	ID                string
	DealID            string
	UserID            *string
	InvestorID        string
	Role              string
	ReferrerKind      ReferrerKind // vacío si no fue referido
	ReferrerID        *string
	AssignedFeePlanID *string
	TermSheetID       *string
	DispatchedAt      *time.Time
	CreatedAt         time.Time
}

// Referrer devuelve la entidad referente, si la hay.
func (m *DealMembership) Referrer() (Referrer, bool) {
	if m.ReferrerKind == "" || m.ReferrerID == nil || *m.ReferrerID == "" {
		return Referrer{}, false
	}
	return Referrer{Kind: m.ReferrerKind, ID: *m.ReferrerID}, true
}

package entity

import "time"

// Estado de acuerdo vigente.
const AgreementStatusActive = "active"

// IntroducerAgreement acuerdo firmado de un introducer.
type IntroducerAgreement struct {
	ID           string
	IntroducerID string
	Status       string
	SignedDate   *time.Time
	ExpiryDate   *time.Time // nil = sin vencimiento
}

// IsInForce: activo, firmado y sin vencer a la fecha (UTC, granularidad día).
func (a *IntroducerAgreement) IsInForce(asOf time.Time) bool {
	if a.Status != AgreementStatusActive || a.SignedDate == nil {
		return false
	}
	if a.ExpiryDate == nil {
		return true
	}
	today := asOf.UTC().Format("2006-01-02")
	return a.ExpiryDate.UTC().Format("2006-01-02") >= today
}

package entity

import "time"

// Estado de fee plan que habilita comisiones.
const FeePlanStatusAccepted = "accepted"

// Tipos de componente de comisión.
const (
	FeeComponentSubscription = "subscription"
	FeeComponentManagement   = "management"
	FeeComponentPerformance  = "performance"
)

// FeeComponent tasa en puntos básicos para un tipo de comisión.
type FeeComponent struct {
	ID        string
	FeePlanID string
	Kind      string
	RateBps   int
}

// FeePlan conjunto de tasas de un deal asignado a una entidad referente.
type FeePlan struct {
	ID                     string
	DealID                 string
	TermSheetID            *string
	Name                   string
	Status                 string
	IsActive               bool
	IntroducerID           *string
	PartnerID              *string
	CommercialPartnerID    *string
	InvoiceRequestsEnabled bool
	Components             []FeeComponent
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsApplicable: aceptado y activo.
func (p *FeePlan) IsApplicable() bool {
	return p.Status == FeePlanStatusAccepted && p.IsActive
}

// LinkedEntity devuelve la entidad a la que está atado el plan (la primera definida).
func (p *FeePlan) LinkedEntity() (Referrer, bool) {
	switch {
	case p.IntroducerID != nil && *p.IntroducerID != "":
		return Referrer{Kind: ReferrerIntroducer, ID: *p.IntroducerID}, true
	case p.PartnerID != nil && *p.PartnerID != "":
		return Referrer{Kind: ReferrerPartner, ID: *p.PartnerID}, true
	case p.CommercialPartnerID != nil && *p.CommercialPartnerID != "":
		return Referrer{Kind: ReferrerCommercialPartner, ID: *p.CommercialPartnerID}, true
	}
	return Referrer{}, false
}

// RateBps devuelve la tasa del componente indicado (0 si no existe).
func (p *FeePlan) RateBps(kind string) int {
	for _, c := range p.Components {
		if c.Kind == kind {
			return c.RateBps
		}
	}
	return 0
}

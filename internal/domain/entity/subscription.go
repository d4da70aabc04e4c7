package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de suscripción relevantes para el cierre. active es terminal en este flujo.
const (
	SubscriptionStatusFunded = "funded"
	SubscriptionStatusActive = "active"
)

// Subscription compromiso de un inversionista en un deal.
type Subscription struct {
	ID              string
	InvestorID      string
	DealID          string
	VehicleID       *string
	Status          string
	Currency        string
	Commitment      decimal.Decimal
	FundedAmount    decimal.Decimal
	NumShares       *decimal.Decimal
	PricePerShare   *decimal.Decimal
	CostPerShare    *decimal.Decimal
	SpreadPerShare  *decimal.Decimal // se fija al activar
	SpreadFeeAmount *decimal.Decimal // se fija al activar
	ActivatedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPendingActivation: fondeada y nunca activada.
func (s *Subscription) IsPendingActivation() bool {
	return s.Status == SubscriptionStatusFunded && s.ActivatedAt == nil
}

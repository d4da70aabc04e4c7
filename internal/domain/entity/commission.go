package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Base de cálculo de comisiones: siempre el monto invertido (fondeado).
const CommissionBasisInvestedAmount = "invested_amount"

// Estado inicial de una comisión creada en el cierre.
const CommissionStatusAccrued = "accrued"

// Commission fila de comisión de referido. Única por (entity_id, deal_id, investor_id) dentro de su tabla.
type Commission struct {
	ID             string
	ReferrerKind   ReferrerKind
	EntityID       string
	DealID         string
	InvestorID     string
	SubscriptionID string
	FeePlanID      string
	BasisType      string
	RateBps        int
	BaseAmount     decimal.Decimal
	AccrualAmount  decimal.Decimal
	Currency       string
	Status         string
	CreatedAt      time.Time
}

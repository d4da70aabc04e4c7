package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position tenencia de un inversionista en un vehículo. Única por (investor_id, vehicle_id).
type Position struct {
	ID         string
	InvestorID string
	VehicleID  string
	Units      decimal.Decimal
	CostBasis  decimal.Decimal
	AsOfDate   time.Time
	CreatedAt  time.Time
}

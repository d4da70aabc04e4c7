package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CertificateRequest datos necesarios para emitir el certificado de una suscripción activada.
type CertificateRequest struct {
	SubscriptionID string
	InvestorID     string
	VehicleID      string
	DealID         string
	DealName       string
	Currency       string
	Commitment     decimal.Decimal
	FundedAmount   decimal.Decimal
	Shares         decimal.Decimal
	PricePerShare  *decimal.Decimal
	Profile        *Profile
}

// Certificate certificado de inversión generado (PDF). Uno por suscripción.
type Certificate struct {
	ID             string
	SubscriptionID string
	InvestorID     string
	SerialNumber   string
	PDF            []byte
	IssuedAt       time.Time
}

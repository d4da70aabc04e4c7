package entity

import "time"

// Termsheet es una versión de la estructura de comisiones de un deal (tabla deal_fee_structures).
// Cada termsheet se cierra de forma independiente al deal.
type Termsheet struct {
	ID                string
	DealID            string
	Version           int
	Status            string
	CompletionDate    *time.Time
	ClosedProcessedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsClosedProcessed informa si el cierre del termsheet ya fue procesado.
func (t *Termsheet) IsClosedProcessed() bool { return t.ClosedProcessedAt != nil }

package entity

import "time"

// Deal representa una operación de inversión (vehículo + arreglador) que se cierra una sola vez.
type Deal struct {
	ID                string
	Name              string
	Currency          string
	VehicleID         *string
	ArrangerEntityID  *string
	Status            string
	CloseAt           *time.Time // fecha de cierre pactada
	ClosedProcessedAt *time.Time // marcador de idempotencia; lo fija el procesador de cierre
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsClosedProcessed informa si el cierre ya fue procesado.
func (d *Deal) IsClosedProcessed() bool { return d.ClosedProcessedAt != nil }

package ports

import "context"

// Subjects publicados por el servicio de cierres.
const (
	SubjectDealClosed        = "closing.deal.closed"
	SubjectTermsheetClosed   = "closing.termsheet.closed"
	SubjectCommissionAccrued = "closing.commission.accrued"
	SubjectEmailRequested    = "notifications.email.requested"
)

// EventPublisher puerto de salida hacia el bus de eventos (NATS, Kafka o noop).
// El payload se serializa como JSON; key agrupa mensajes del mismo agregado (partición en Kafka).
type EventPublisher interface {
	Publish(ctx context.Context, subject, key string, payload any) error
}

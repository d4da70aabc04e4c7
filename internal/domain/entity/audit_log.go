package entity

import "time"

// Acciones de auditoría registradas por el cierre.
const AuditActionCommissionCreated = "commission.created"

// AuditLog entrada de auditoría (write-once).
type AuditLog struct {
	ID        string
	Action    string
	Entity    string
	EntityID  string
	Metadata  map[string]any
	CreatedAt time.Time
}

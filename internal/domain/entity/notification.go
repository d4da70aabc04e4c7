package entity

import "time"

// Tipos de notificación emitidos por el cierre.
const (
	NotificationTypeCommissionAccrued      = "commission_accrued"
	NotificationTypeInvoiceRequestsEnabled = "invoice_requests_enabled"
)

// Notification notificación a un usuario del portal (opcionalmente también por email).
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Link      string
	Type      string
	SendEmail bool
	DealID    *string
	CreatedAt time.Time
}

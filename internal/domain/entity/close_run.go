package entity

import "time"

// Tipos de objetivo de cierre.
const (
	CloseTargetDeal      = "deal"
	CloseTargetTermsheet = "termsheet"
)

// CloseRun registro de una ejecución de cierre (no se registra el no-op idempotente).
// Mantiene visibles los errores aunque el marcador impida reintentos.
type CloseRun struct {
	ID                       string
	TargetKind               string
	TargetID                 string
	DealID                   string
	Success                  bool
	Marked                   bool
	SubscriptionsActivated   int
	PositionsCreated         int
	CommissionsCreated       int
	CertificatesTriggered    int
	FeePlansEnabled          int
	NotificationsSent        int
	AccrualNotificationsSent int
	Errors                   []string
	StartedAt                time.Time
	FinishedAt               time.Time
}

package dto

import (
	"fmt"
	"time"
)

// CloseResult resultado de cerrar un deal o un termsheet.
// Nunca se devuelve un error Go: los fallos se acumulan en Errors y Success refleja si quedó vacía.
type CloseResult struct {
	Success                  bool     `json:"success"`
	DealID                   string   `json:"deal_id,omitempty"`
	TermsheetID              string   `json:"termsheet_id,omitempty"`
	SubscriptionsActivated   int      `json:"subscriptions_activated"`
	PositionsCreated         int      `json:"positions_created"`
	CommissionsCreated       int      `json:"commissions_created"`
	CertificatesTriggered    int      `json:"certificates_triggered"`
	FeePlansEnabled          int      `json:"fee_plans_enabled"`
	NotificationsSent        int      `json:"notifications_sent"`
	AccrualNotificationsSent int      `json:"accrual_notifications_sent"`
	Errors                   []string `json:"errors"`

	// Cause error de dominio que abortó el cierre (no encontrado, cierre en curso). Solo para mapear HTTP/CLI.
	Cause error `json:"-"`
}

// NewCloseResult resultado vacío con lista de errores inicializada (se serializa como []).
func NewCloseResult() *CloseResult {
	return &CloseResult{Errors: []string{}}
}

// AddError agrega un error formateado a la lista.
func (r *CloseResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Abort registra el error que impide continuar el cierre.
func (r *CloseResult) Abort(cause error, format string, args ...any) {
	r.Cause = cause
	r.AddError(format, args...)
}

// SweepReport resultado de un barrido de cierres pendientes.
type SweepReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Deals      []*CloseResult `json:"deals"`
	Termsheets []*CloseResult `json:"termsheets"`
	Errors     []string       `json:"errors"`
}

// DealReadinessResponse respuesta de GET /api/deals/:id/readiness.
type DealReadinessResponse struct {
	DealID            string     `json:"deal_id"`
	Ready             bool       `json:"ready"`
	CloseAt           *time.Time `json:"close_at,omitempty"`
	ClosedProcessedAt *time.Time `json:"closed_processed_at,omitempty"`
}

// CloseRunResponse ejecución de cierre registrada.
type CloseRunResponse struct {
	ID                       string    `json:"id"`
	TargetKind               string    `json:"target_kind"`
	TargetID                 string    `json:"target_id"`
	DealID                   string    `json:"deal_id"`
	Success                  bool      `json:"success"`
	Marked                   bool      `json:"marked"`
	SubscriptionsActivated   int       `json:"subscriptions_activated"`
	PositionsCreated         int       `json:"positions_created"`
	CommissionsCreated       int       `json:"commissions_created"`
	CertificatesTriggered    int       `json:"certificates_triggered"`
	FeePlansEnabled          int       `json:"fee_plans_enabled"`
	NotificationsSent        int       `json:"notifications_sent"`
	AccrualNotificationsSent int       `json:"accrual_notifications_sent"`
	Errors                   []string  `json:"errors"`
	StartedAt                time.Time `json:"started_at"`
	FinishedAt               time.Time `json:"finished_at"`
}

// CloseRunListRequest filtros de GET /api/close-runs.
type CloseRunListRequest struct {
	PageRequest
	TargetKind string `query:"target_kind"`
	TargetID   string `query:"target_id"`
}

// CloseRunListResponse listado paginado de ejecuciones.
type CloseRunListResponse struct {
	Items []CloseRunResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package closing

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

// FinalizeTxRunner ejecuta el marcado del objetivo y el registro de la ejecución en una sola transacción.
type FinalizeTxRunner interface {
	RunFinalize(ctx context.Context, fn func(
		dealRepo repository.DealRepository,
		termsheetRepo repository.TermsheetRepository,
		closeRunRepo repository.CloseRunRepository,
	) error) error
}

// CertificateTrigger encola la generación del certificado de una suscripción activada (fire-and-forget).
type CertificateTrigger interface {
	Trigger(ctx context.Context, req entity.CertificateRequest) error
}

// Notifier crea notificaciones para usuarios del portal.
type Notifier interface {
	CreateInvestorNotification(ctx context.Context, n *entity.Notification) error
}

// AuditLogger registra entradas de auditoría.
type AuditLogger interface {
	Log(ctx context.Context, e *entity.AuditLog) error
}

package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// AuditLogRepository persiste entradas de auditoría.
type AuditLogRepository interface {
	Log(ctx context.Context, e *entity.AuditLog) error
}

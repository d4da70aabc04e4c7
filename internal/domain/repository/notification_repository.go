package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// NotificationRepository persiste notificaciones del portal.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
}

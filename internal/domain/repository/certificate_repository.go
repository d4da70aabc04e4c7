package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// CertificateRepository persiste certificados de inversión (uno por suscripción).
type CertificateRepository interface {
	ExistsForSubscription(ctx context.Context, subscriptionID string) (bool, error)
	// CreateIfAbsent devuelve false si la suscripción ya tenía certificado.
	CreateIfAbsent(ctx context.Context, c *entity.Certificate) (bool, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Certificate, error)
}

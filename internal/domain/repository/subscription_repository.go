package repository

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para Subscription.
type SubscriptionRepository interface {
	// ListPendingActivation suscripciones del deal en estado funded y sin activated_at.
	// investorIDs nil = todos los inversionistas; slice vacío = ninguno.
	ListPendingActivation(ctx context.Context, dealID string, investorIDs []string) ([]*entity.Subscription, error)
	// Activate pasa la suscripción a active con activated_at y los campos de spread.
	// Solo actualiza si activated_at es NULL; devuelve false si otra ejecución ya la activó.
	Activate(ctx context.Context, sub *entity.Subscription) (bool, error)
}

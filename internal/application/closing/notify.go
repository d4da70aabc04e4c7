package closing

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// notifyInvoiceRequestsEnabled envía una notificación por usuario de la entidad de cada plan habilitado.
// Devuelve cuántas se crearon; los fallos por usuario solo se registran en el log.
func (p *Processor) notifyInvoiceRequestsEnabled(ctx context.Context, deal *entity.Deal, plans []*entity.FeePlan) int {
	sent := 0
	for _, plan := range plans {
		ref, ok := plan.LinkedEntity()
		if !ok {
			continue
		}
		users, err := p.entityUsers.ListUserIDs(ctx, ref)
		if err != nil {
			p.log.Error().Err(err).Str("fee_plan_id", plan.ID).Msg("no se pudieron listar usuarios de la entidad")
			continue
		}
		for _, userID := range users {
			dealID := deal.ID
			err := p.notifier.CreateInvestorNotification(ctx, &entity.Notification{
				UserID:    userID,
				Title:     "Solicitudes de factura habilitadas",
				Message:   fmt.Sprintf("El deal %s cerró. Ya puede solicitar la factura de sus comisiones (%s).", deal.Name, plan.Name),
				Link:      fmt.Sprintf("/deals/%s/invoices", deal.ID),
				Type:      entity.NotificationTypeInvoiceRequestsEnabled,
				SendEmail: true,
				DealID:    &dealID,
			})
			if err != nil {
				p.log.Warn().Err(err).Str("user_id", userID).Str("fee_plan_id", plan.ID).Msg("no se pudo notificar habilitación de facturas")
				continue
			}
			sent++
		}
	}
	return sent
}

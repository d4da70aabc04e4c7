package closing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/application/dto"
	domainclosing "github.com/jhoicas/dealroom-api/internal/domain/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// processSubscription activa la suscripción y ejecuta posición, comisión y certificado.
// Los fallos de posición o comisión no impiden disparar el certificado.
func (p *Processor) processSubscription(ctx context.Context, sc *scope, sub *entity.Subscription, res *dto.CloseResult) {
	log := p.log.Zerolog().With().Str("subscription_id", sub.ID).Str("investor_id", sub.InvestorID).Logger()

	now := p.now()
	if perShare, total, ok := domainclosing.Spread(sub.NumShares, sub.PricePerShare, sub.CostPerShare); ok {
		sub.SpreadPerShare = &perShare
		sub.SpreadFeeAmount = &total
	}
	sub.Status = entity.SubscriptionStatusActive
	sub.ActivatedAt = &now

	activated, err := p.subscriptions.Activate(ctx, sub)
	if err != nil {
		res.AddError("Suscripción %s: error al activar: %v", sub.ID, err)
		return
	}
	if !activated {
		log.Warn().Msg("suscripción ya activada por otra ejecución, se omite")
		return
	}
	res.SubscriptionsActivated++

	vehicleID := p.vehicleFor(sc.deal, sub)
	p.createPosition(ctx, sub, vehicleID, res)

	outcome, err := p.commissions.Process(ctx, sc.deal, sc.termsheetID, sub)
	if err != nil {
		if errors.Is(err, ErrCommissionSkipped) {
			log.Info().Err(err).Msg("comisión no aplicable")
		} else {
			log.Error().Err(err).Msg("error procesando comisión")
		}
		res.AddError("Suscripción %s: %v", sub.ID, err)
	}
	if outcome.Created {
		res.CommissionsCreated++
		res.AccrualNotificationsSent += outcome.AccrualNotifications
	}

	p.triggerCertificate(ctx, sc.deal, sub, vehicleID, res)
}

func (p *Processor) vehicleFor(deal *entity.Deal, sub *entity.Subscription) string {
	if sub.VehicleID != nil && *sub.VehicleID != "" {
		return *sub.VehicleID
	}
	if deal.VehicleID != nil {
		return *deal.VehicleID
	}
	return ""
}

// createPosition crea la posición (investor, vehicle) si no existe. cost_basis = monto fondeado.
func (p *Processor) createPosition(ctx context.Context, sub *entity.Subscription, vehicleID string, res *dto.CloseResult) {
	if vehicleID == "" {
		res.AddError("Suscripción %s: sin vehículo, no se crea posición", sub.ID)
		return
	}
	units := domainclosing.DeriveUnits(sub)
	if !units.IsPositive() {
		res.AddError("Suscripción %s: no se pudieron derivar unidades para la posición", sub.ID)
		return
	}
	now := p.now()
	created, err := p.positions.CreateIfAbsent(ctx, &entity.Position{
		ID:         uuid.New().String(),
		InvestorID: sub.InvestorID,
		VehicleID:  vehicleID,
		Units:      units,
		CostBasis:  sub.FundedAmount,
		AsOfDate:   now,
		CreatedAt:  now,
	})
	if err != nil {
		res.AddError("Suscripción %s: error al crear posición: %v", sub.ID, err)
		return
	}
	if created {
		res.PositionsCreated++
	}
}

func (p *Processor) triggerCertificate(ctx context.Context, deal *entity.Deal, sub *entity.Subscription, vehicleID string, res *dto.CloseResult) {
	profile, err := p.profiles.GetInvestorContact(ctx, deal.ID, sub.InvestorID)
	if err != nil {
		p.log.Warn().Err(err).Str("investor_id", sub.InvestorID).Msg("sin perfil para el certificado")
		profile = nil
	}
	currency := sub.Currency
	if currency == "" {
		currency = deal.Currency
	}
	req := entity.CertificateRequest{
		SubscriptionID: sub.ID,
		InvestorID:     sub.InvestorID,
		VehicleID:      vehicleID,
		DealID:         deal.ID,
		DealName:       deal.Name,
		Currency:       currency,
		Commitment:     sub.Commitment,
		FundedAmount:   sub.FundedAmount,
		Shares:         domainclosing.DeriveUnits(sub),
		PricePerShare:  sub.PricePerShare,
		Profile:        profile,
	}
	if err := p.certificates.Trigger(ctx, req); err != nil {
		res.AddError("Suscripción %s: error al disparar certificado: %v", sub.ID, err)
		return
	}
	res.CertificatesTriggered++
}

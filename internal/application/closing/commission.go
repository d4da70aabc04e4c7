package closing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	domainclosing "github.com/jhoicas/dealroom-api/internal/domain/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
	"github.com/jhoicas/dealroom-api/pkg/money"
)

// ErrCommissionSkipped envuelve las condiciones esperadas que impiden crear una comisión
// (plan inactivo, sin acuerdo, tasa cero, referente distinto al del plan).
var ErrCommissionSkipped = errors.New("comisión omitida")

func skipf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCommissionSkipped, fmt.Sprintf(format, args...))
}

// eligibilityCheck validación adicional por tipo de referente.
type eligibilityCheck func(ctx context.Context, ref entity.Referrer, asOf time.Time) error

// CommissionOutcome resultado de procesar la comisión de una suscripción.
type CommissionOutcome struct {
	Created              bool
	Commission           *entity.Commission
	AccrualNotifications int
}

// CommissionCalculator resuelve el referente de un inversionista, valida su fee plan
// y registra la comisión sobre el monto fondeado.
type CommissionCalculator struct {
	memberships repository.DealMembershipRepository
	feePlans    repository.FeePlanRepository
	commissions repository.CommissionRepository
	agreements  repository.IntroducerAgreementRepository
	entityUsers repository.EntityUserRepository
	notifier    Notifier
	audit       AuditLogger
	events      ports.EventPublisher
	log         *logger.Logger
	now         func() time.Time

	eligibility map[entity.ReferrerKind]eligibilityCheck
}

// NewCommissionCalculator construye el calculador.
func NewCommissionCalculator(
	memberships repository.DealMembershipRepository,
	feePlans repository.FeePlanRepository,
	commissions repository.CommissionRepository,
	agreements repository.IntroducerAgreementRepository,
	entityUsers repository.EntityUserRepository,
	notifier Notifier,
	audit AuditLogger,
	events ports.EventPublisher,
	log *logger.Logger,
) *CommissionCalculator {
	if log == nil {
		log = logger.Nop()
	}
	c := &CommissionCalculator{
		memberships: memberships,
		feePlans:    feePlans,
		commissions: commissions,
		agreements:  agreements,
		entityUsers: entityUsers,
		notifier:    notifier,
		audit:       audit,
		events:      events,
		log:         log.Component("commission"),
		now:         time.Now,
	}
	c.eligibility = map[entity.ReferrerKind]eligibilityCheck{
		entity.ReferrerIntroducer:        c.requireAgreementInForce,
		entity.ReferrerPartner:           nil,
		entity.ReferrerCommercialPartner: nil,
	}
	return c
}

// Process calcula y registra la comisión del referente de la suscripción.
// Sin referente no hay comisión ni error. Un error envuelto en ErrCommissionSkipped es una omisión esperada.
func (c *CommissionCalculator) Process(ctx context.Context, deal *entity.Deal, termsheetID *string, sub *entity.Subscription) (CommissionOutcome, error) {
	var out CommissionOutcome

	m, err := c.memberships.LatestReferral(ctx, deal.ID, sub.InvestorID, termsheetID)
	if err != nil {
		return out, fmt.Errorf("buscar referido del inversionista %s: %w", sub.InvestorID, err)
	}
	if m == nil {
		return out, nil
	}
	ref, ok := m.Referrer()
	if !ok {
		return out, nil
	}
	check, known := c.eligibility[ref.Kind]
	if !known {
		return out, skipf("tipo de referente desconocido %q", ref.Kind)
	}

	plan, err := c.resolvePlan(ctx, m, ref)
	if err != nil {
		return out, err
	}
	rate := plan.RateBps(entity.FeeComponentSubscription)
	if rate <= 0 {
		return out, skipf("fee plan %s sin tasa de suscripción", plan.ID)
	}

	now := c.now()
	if check != nil {
		if err := check(ctx, ref, now); err != nil {
			return out, err
		}
	}

	currency := sub.Currency
	if currency == "" {
		currency = deal.Currency
	}
	commission := &entity.Commission{
		ID:             uuid.New().String(),
		ReferrerKind:   ref.Kind,
		EntityID:       ref.ID,
		DealID:         deal.ID,
		InvestorID:     sub.InvestorID,
		SubscriptionID: sub.ID,
		FeePlanID:      plan.ID,
		BasisType:      entity.CommissionBasisInvestedAmount,
		RateBps:        rate,
		BaseAmount:     sub.FundedAmount,
		AccrualAmount:  domainclosing.CommissionAmount(sub.FundedAmount, rate),
		Currency:       currency,
		Status:         entity.CommissionStatusAccrued,
		CreatedAt:      now,
	}
	created, err := c.commissions.Create(ctx, commission)
	if err != nil {
		return out, fmt.Errorf("crear comisión de %s %s: %w", ref.Kind, ref.ID, err)
	}
	if !created {
		c.log.Debug().
			Str("deal_id", deal.ID).
			Str("investor_id", sub.InvestorID).
			Str("entity_id", ref.ID).
			Msg("comisión ya registrada, se omite")
		return out, nil
	}

	out.Created = true
	out.Commission = commission
	out.AccrualNotifications = c.announce(ctx, deal, commission)
	return out, nil
}

// resolvePlan valida que el plan asignado exista, esté aceptado y activo, y pertenezca al referente.
func (c *CommissionCalculator) resolvePlan(ctx context.Context, m *entity.DealMembership, ref entity.Referrer) (*entity.FeePlan, error) {
	if m.AssignedFeePlanID == nil || *m.AssignedFeePlanID == "" {
		return nil, skipf("%s %s sin fee plan asignado", ref.Kind, ref.ID)
	}
	plan, err := c.feePlans.GetByID(ctx, *m.AssignedFeePlanID)
	if err != nil {
		return nil, fmt.Errorf("obtener fee plan %s: %w", *m.AssignedFeePlanID, err)
	}
	if plan == nil {
		return nil, skipf("fee plan %s no existe", *m.AssignedFeePlanID)
	}
	if plan.Status != entity.FeePlanStatusAccepted {
		return nil, skipf("fee plan %s no está aceptado (estado %q)", plan.ID, plan.Status)
	}
	if !plan.IsActive {
		return nil, skipf("fee plan %s no está activo", plan.ID)
	}
	if linked, ok := plan.LinkedEntity(); !ok || linked != ref {
		return nil, skipf("fee plan %s no corresponde al %s %s", plan.ID, ref.Kind, ref.ID)
	}
	return plan, nil
}

func (c *CommissionCalculator) requireAgreementInForce(ctx context.Context, ref entity.Referrer, asOf time.Time) error {
	agreement, err := c.agreements.GetInForce(ctx, ref.ID, asOf)
	if err != nil {
		return fmt.Errorf("obtener acuerdo del introducer %s: %w", ref.ID, err)
	}
	if agreement == nil || !agreement.IsInForce(asOf) {
		return skipf("introducer %s sin acuerdo firmado y vigente", ref.ID)
	}
	return nil
}

// announce registra la auditoría, notifica a los usuarios del referente y publica el evento.
// Ningún fallo aquí revierte la comisión; devuelve cuántas notificaciones se crearon.
func (c *CommissionCalculator) announce(ctx context.Context, deal *entity.Deal, commission *entity.Commission) int {
	log := c.log.Zerolog().With().
		Str("commission_id", commission.ID).
		Str("deal_id", deal.ID).
		Str("entity_id", commission.EntityID).
		Logger()

	if err := c.audit.Log(ctx, &entity.AuditLog{
		ID:       uuid.New().String(),
		Action:   entity.AuditActionCommissionCreated,
		Entity:   string(commission.ReferrerKind) + "_commission",
		EntityID: commission.ID,
		Metadata: map[string]any{
			"deal_id":         commission.DealID,
			"investor_id":     commission.InvestorID,
			"subscription_id": commission.SubscriptionID,
			"entity_id":       commission.EntityID,
			"fee_plan_id":     commission.FeePlanID,
			"rate_bps":        commission.RateBps,
			"base_amount":     commission.BaseAmount.String(),
			"accrual_amount":  commission.AccrualAmount.String(),
			"currency":        commission.Currency,
		},
		CreatedAt: commission.CreatedAt,
	}); err != nil {
		log.Error().Err(err).Msg("no se pudo registrar auditoría de comisión")
	}

	sent := 0
	users, err := c.entityUsers.ListUserIDs(ctx, entity.Referrer{Kind: commission.ReferrerKind, ID: commission.EntityID})
	if err != nil {
		log.Error().Err(err).Msg("no se pudieron listar usuarios del referente")
	}
	message := fmt.Sprintf("Se devengó una comisión de %s por la inversión fondeada en %s.",
		money.Format(commission.AccrualAmount, commission.Currency), deal.Name)
	for _, userID := range users {
		dealID := deal.ID
		n := &entity.Notification{
			UserID:    userID,
			Title:     "Comisión devengada",
			Message:   message,
			Link:      "/commissions",
			Type:      entity.NotificationTypeCommissionAccrued,
			SendEmail: true,
			DealID:    &dealID,
		}
		if err := c.notifier.CreateInvestorNotification(ctx, n); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo notificar comisión")
			continue
		}
		sent++
	}

	if err := c.events.Publish(ctx, ports.SubjectCommissionAccrued, commission.ID, commissionAccruedEvent{
		CommissionID:   commission.ID,
		ReferrerKind:   string(commission.ReferrerKind),
		EntityID:       commission.EntityID,
		DealID:         commission.DealID,
		InvestorID:     commission.InvestorID,
		SubscriptionID: commission.SubscriptionID,
		RateBps:        commission.RateBps,
		AccrualAmount:  commission.AccrualAmount.String(),
		Currency:       commission.Currency,
		AccruedAt:      commission.CreatedAt,
	}); err != nil {
		log.Warn().Err(err).Msg("no se pudo publicar evento de comisión")
	}
	return sent
}

type commissionAccruedEvent struct {
	CommissionID   string    `json:"commission_id"`
	ReferrerKind   string    `json:"referrer_kind"`
	EntityID       string    `json:"entity_id"`
	DealID         string    `json:"deal_id"`
	InvestorID     string    `json:"investor_id"`
	SubscriptionID string    `json:"subscription_id"`
	RateBps        int       `json:"rate_bps"`
	AccrualAmount  string    `json:"accrual_amount"`
	Currency       string    `json:"currency"`
	AccruedAt      time.Time `json:"accrued_at"`
}

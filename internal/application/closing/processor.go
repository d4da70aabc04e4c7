// Package closing orquesta el cierre de deals y termsheets: activa suscripciones fondeadas,
// crea posiciones, registra comisiones de referidos, dispara certificados y notifica.
package closing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// Options parámetros del cierre.
type Options struct {
	// MarkOnErrors true marca closed_processed_at aunque haya errores; false solo con la lista vacía.
	MarkOnErrors bool
	LockTTL      time.Duration
}

// Deps dependencias del procesador.
type Deps struct {
	Deals         repository.DealRepository
	Termsheets    repository.TermsheetRepository
	Subscriptions repository.SubscriptionRepository
	Positions     repository.PositionRepository
	Memberships   repository.DealMembershipRepository
	FeePlans      repository.FeePlanRepository
	EntityUsers   repository.EntityUserRepository
	Profiles      repository.ProfileRepository
	TxRunner      FinalizeTxRunner
	Commissions   *CommissionCalculator
	Certificates  CertificateTrigger
	Notifier      Notifier
	Events        ports.EventPublisher
	Locker        ports.Locker
	Logger        *logger.Logger
}

// Processor ejecuta el cierre de un deal o de un termsheet. Es seguro para uso concurrente:
// dos cierres del mismo objetivo se excluyen por lock.
type Processor struct {
	deals         repository.DealRepository
	termsheets    repository.TermsheetRepository
	subscriptions repository.SubscriptionRepository
	positions     repository.PositionRepository
	memberships   repository.DealMembershipRepository
	feePlans      repository.FeePlanRepository
	entityUsers   repository.EntityUserRepository
	profiles      repository.ProfileRepository
	txRunner      FinalizeTxRunner
	commissions   *CommissionCalculator
	certificates  CertificateTrigger
	notifier      Notifier
	events        ports.EventPublisher
	locker        ports.Locker
	log           *logger.Logger
	opts          Options
	now           func() time.Time
}

// NewProcessor construye el procesador de cierres.
func NewProcessor(d Deps, opts Options) *Processor {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &Processor{
		deals:         d.Deals,
		termsheets:    d.Termsheets,
		subscriptions: d.Subscriptions,
		positions:     d.Positions,
		memberships:   d.Memberships,
		feePlans:      d.FeePlans,
		entityUsers:   d.EntityUsers,
		profiles:      d.Profiles,
		txRunner:      d.TxRunner,
		commissions:   d.Commissions,
		certificates:  d.Certificates,
		notifier:      d.Notifier,
		events:        d.Events,
		locker:        d.Locker,
		log:           log.Component("closing"),
		opts:          opts,
		now:           time.Now,
	}
}

// scope objetivo del cierre. investorIDs nil = todos los inversionistas del deal.
type scope struct {
	kind        string
	targetID    string
	deal        *entity.Deal
	termsheetID *string
	investorIDs []string
}

// CloseDeal procesa el cierre de un deal. Si ya fue procesado devuelve éxito sin cambios.
func (p *Processor) CloseDeal(ctx context.Context, dealID string) *dto.CloseResult {
	res := dto.NewCloseResult()
	res.DealID = dealID
	if dealID == "" {
		res.Abort(domain.ErrInvalidInput, "dealId requerido")
		return res
	}
	p.runLocked(ctx, entity.CloseTargetDeal, dealID, res, func() {
		deal, err := p.deals.GetByID(ctx, dealID)
		if err != nil {
			res.Abort(err, "Error obteniendo deal %s: %v", dealID, err)
			return
		}
		if deal == nil {
			res.Abort(domain.ErrNotFound, "Deal no encontrado: %s", dealID)
			return
		}
		if deal.IsClosedProcessed() {
			p.log.Info().Str("deal_id", dealID).Msg("deal ya procesado, nada que hacer")
			return
		}
		p.close(ctx, &scope{kind: entity.CloseTargetDeal, targetID: deal.ID, deal: deal}, res)
	})
	return res
}

// CloseTermsheet procesa el cierre de un termsheet: solo los inversionistas vinculados a él.
func (p *Processor) CloseTermsheet(ctx context.Context, termsheetID string) *dto.CloseResult {
	res := dto.NewCloseResult()
	res.TermsheetID = termsheetID
	if termsheetID == "" {
		res.Abort(domain.ErrInvalidInput, "termsheetId requerido")
		return res
	}
	p.runLocked(ctx, entity.CloseTargetTermsheet, termsheetID, res, func() {
		ts, err := p.termsheets.GetByID(ctx, termsheetID)
		if err != nil {
			res.Abort(err, "Error obteniendo termsheet %s: %v", termsheetID, err)
			return
		}
		if ts == nil {
			res.Abort(domain.ErrNotFound, "Termsheet no encontrado: %s", termsheetID)
			return
		}
		res.DealID = ts.DealID
		if ts.IsClosedProcessed() {
			p.log.Info().Str("termsheet_id", termsheetID).Msg("termsheet ya procesado, nada que hacer")
			return
		}
		deal, err := p.deals.GetByID(ctx, ts.DealID)
		if err != nil {
			res.Abort(err, "Error obteniendo deal %s del termsheet: %v", ts.DealID, err)
			return
		}
		if deal == nil {
			res.Abort(domain.ErrNotFound, "Deal %s del termsheet no encontrado", ts.DealID)
			return
		}
		investorIDs, err := p.memberships.ListInvestorIDsByTermsheet(ctx, deal.ID, ts.ID)
		if err != nil {
			res.Abort(err, "Error listando inversionistas del termsheet: %v", err)
			return
		}
		if investorIDs == nil {
			investorIDs = []string{}
		}
		tsID := ts.ID
		p.close(ctx, &scope{
			kind:        entity.CloseTargetTermsheet,
			targetID:    ts.ID,
			deal:        deal,
			termsheetID: &tsID,
			investorIDs: investorIDs,
		}, res)
	})
	return res
}

// runLocked toma el lock del objetivo, ejecuta fn y recupera cualquier panic como error de la lista.
func (p *Processor) runLocked(ctx context.Context, kind, targetID string, res *dto.CloseResult, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Str("target_kind", kind).
				Str("target_id", targetID).
				Interface("panic", r).
				Msg("error inesperado en cierre")
			res.AddError("Error inesperado: %v", r)
		}
		res.Success = len(res.Errors) == 0
	}()

	release, err := p.locker.Acquire(ctx, "close:"+kind+":"+targetID, p.opts.LockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			res.Abort(domain.ErrCloseInProgress, "Cierre en curso para %s %s", kind, targetID)
			return
		}
		res.Abort(err, "No se pudo adquirir lock de cierre: %v", err)
		return
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			p.log.Warn().Err(err).Str("target_id", targetID).Msg("no se pudo liberar lock de cierre")
		}
	}()

	fn()
}

// close ejecuta los pasos del cierre sobre el scope ya validado.
func (p *Processor) close(ctx context.Context, sc *scope, res *dto.CloseResult) {
	startedAt := p.now()
	log := p.log.Zerolog().With().Str("target_kind", sc.kind).Str("target_id", sc.targetID).Logger()
	log.Info().Str("deal_id", sc.deal.ID).Msg("iniciando cierre")

	// 1) Suscripciones fondeadas sin activar
	subs, err := p.subscriptions.ListPendingActivation(ctx, sc.deal.ID, sc.investorIDs)
	if err != nil {
		res.AddError("Error listando suscripciones fondeadas: %v", err)
	}

	// 2) Cada suscripción es independiente: un fallo se registra y se sigue con la siguiente
	for _, sub := range subs {
		p.processSubscription(ctx, sc, sub, res)
	}

	// 3) Habilitar solicitudes de factura y avisar a las entidades de los planes
	enabled, err := p.feePlans.EnableInvoiceRequests(ctx, sc.deal.ID, sc.termsheetID)
	if err != nil {
		res.AddError("Error habilitando solicitudes de factura: %v", err)
	}
	res.FeePlansEnabled = len(enabled)
	res.NotificationsSent += p.notifyInvoiceRequestsEnabled(ctx, sc.deal, enabled)

	// 4) Marcar y registrar la ejecución
	p.finalize(ctx, sc, res, startedAt)
	res.Success = len(res.Errors) == 0

	subject := ports.SubjectDealClosed
	if sc.kind == entity.CloseTargetTermsheet {
		subject = ports.SubjectTermsheetClosed
	}
	if err := p.events.Publish(ctx, subject, sc.targetID, res); err != nil {
		log.Warn().Err(err).Msg("no se pudo publicar evento de cierre")
	}

	log.Info().
		Int("subscriptions_activated", res.SubscriptionsActivated).
		Int("commissions_created", res.CommissionsCreated).
		Int("errors", len(res.Errors)).
		Msg("cierre terminado")
}

// finalize fija closed_processed_at según la política y guarda el close run en la misma transacción.
func (p *Processor) finalize(ctx context.Context, sc *scope, res *dto.CloseResult, startedAt time.Time) {
	now := p.now()
	shouldMark := p.opts.MarkOnErrors || len(res.Errors) == 0
	run := &entity.CloseRun{
		ID:                       uuid.New().String(),
		TargetKind:               sc.kind,
		TargetID:                 sc.targetID,
		DealID:                   sc.deal.ID,
		Success:                  len(res.Errors) == 0,
		SubscriptionsActivated:   res.SubscriptionsActivated,
		PositionsCreated:         res.PositionsCreated,
		CommissionsCreated:       res.CommissionsCreated,
		CertificatesTriggered:    res.CertificatesTriggered,
		FeePlansEnabled:          res.FeePlansEnabled,
		NotificationsSent:        res.NotificationsSent,
		AccrualNotificationsSent: res.AccrualNotificationsSent,
		Errors:                   append([]string(nil), res.Errors...),
		StartedAt:                startedAt,
		FinishedAt:               now,
	}

	err := p.txRunner.RunFinalize(ctx, func(
		dealRepo repository.DealRepository,
		termsheetRepo repository.TermsheetRepository,
		closeRunRepo repository.CloseRunRepository,
	) error {
		if shouldMark {
			var marked bool
			var err error
			if sc.kind == entity.CloseTargetTermsheet {
				marked, err = termsheetRepo.MarkClosedProcessed(ctx, sc.targetID, now)
			} else {
				marked, err = dealRepo.MarkClosedProcessed(ctx, sc.targetID, now)
			}
			if err != nil {
				return fmt.Errorf("marcar %s como procesado: %w", sc.kind, err)
			}
			if !marked {
				p.log.Warn().Str("target_id", sc.targetID).Msg("el objetivo ya estaba marcado como procesado")
			}
			run.Marked = marked
		}
		return closeRunRepo.Create(ctx, run)
	})
	if err != nil {
		res.AddError("Error finalizando cierre: %v", err)
	}
}

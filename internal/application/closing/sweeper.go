package closing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/internal/domain"
	domainclosing "github.com/jhoicas/dealroom-api/internal/domain/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// Closer operaciones de cierre que usa el barrido (implementado por Processor).
type Closer interface {
	CloseDeal(ctx context.Context, dealID string) *dto.CloseResult
	CloseTermsheet(ctx context.Context, termsheetID string) *dto.CloseResult
}

// Sweeper busca deals y termsheets listos para cerrar y los procesa uno a uno.
type Sweeper struct {
	deals      repository.DealRepository
	termsheets repository.TermsheetRepository
	closer     Closer
	log        *logger.Logger
	now        func() time.Time
}

// NewSweeper construye el barrido.
func NewSweeper(deals repository.DealRepository, termsheets repository.TermsheetRepository, closer Closer, log *logger.Logger) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{
		deals:      deals,
		termsheets: termsheets,
		closer:     closer,
		log:        log.Component("sweeper"),
		now:        time.Now,
	}
}

// Sweep cierra todo lo que esté listo a la fecha actual. Se detiene entre objetivos si ctx se cancela.
func (s *Sweeper) Sweep(ctx context.Context) *dto.SweepReport {
	now := s.now()
	report := &dto.SweepReport{
		StartedAt:  now,
		Deals:      []*dto.CloseResult{},
		Termsheets: []*dto.CloseResult{},
		Errors:     []string{},
	}
	defer func() { report.FinishedAt = s.now() }()

	deals, err := s.deals.ListReadyForClose(ctx, now)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Error listando deals listos para cierre: %v", err))
	}
	for _, d := range deals {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, "barrido cancelado")
			return report
		}
		if !domainclosing.IsDealReadyForClose(d, now) {
			continue
		}
		report.Deals = append(report.Deals, s.closer.CloseDeal(ctx, d.ID))
	}

	termsheets, err := s.termsheets.ListReadyForClose(ctx, now)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Error listando termsheets listos para cierre: %v", err))
	}
	for _, ts := range termsheets {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, "barrido cancelado")
			return report
		}
		if !domainclosing.IsTermsheetReadyForClose(ts, now) {
			continue
		}
		report.Termsheets = append(report.Termsheets, s.closer.CloseTermsheet(ctx, ts.ID))
	}

	s.log.Info().
		Int("deals", len(report.Deals)).
		Int("termsheets", len(report.Termsheets)).
		Int("errors", len(report.Errors)).
		Msg("barrido de cierres terminado")
	return report
}

// DealReadiness informa si el deal está listo para cerrarse.
func (s *Sweeper) DealReadiness(ctx context.Context, dealID string) (*dto.DealReadinessResponse, error) {
	if dealID == "" {
		return nil, domain.ErrInvalidInput
	}
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.DealReadinessResponse{
		DealID:            deal.ID,
		Ready:             domainclosing.IsDealReadyForClose(deal, s.now()),
		CloseAt:           deal.CloseAt,
		ClosedProcessedAt: deal.ClosedProcessedAt,
	}, nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// Sweeper barrido de cierres (closing.Sweeper).
type Sweeper interface {
	Sweep(ctx context.Context) *dto.SweepReport
}

// CloseSweepJob cierra periódicamente los deals y termsheets cuya fecha ya pasó.
type CloseSweepJob struct {
	sweeper  Sweeper
	interval time.Duration
	log      *logger.Logger
}

// NewCloseSweepJob construye el trabajo con el intervalo indicado.
func NewCloseSweepJob(sweeper Sweeper, interval time.Duration, log *logger.Logger) *CloseSweepJob {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CloseSweepJob{sweeper: sweeper, interval: interval, log: log.Component("close_sweep_job")}
}

func (j *CloseSweepJob) Name() string { return "close_sweep" }

func (j *CloseSweepJob) Definition() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Run ejecuta un barrido y registra el resumen.
func (j *CloseSweepJob) Run(ctx context.Context) {
	report := j.sweeper.Sweep(ctx)

	failed := 0
	for _, r := range append(append([]*dto.CloseResult{}, report.Deals...), report.Termsheets...) {
		if !r.Success {
			failed++
		}
	}
	ev := j.log.Info()
	if failed > 0 || len(report.Errors) > 0 {
		ev = j.log.Warn().Strs("errors", report.Errors)
	}
	ev.Int("deals", len(report.Deals)).
		Int("termsheets", len(report.Termsheets)).
		Int("failed", failed).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("barrido de cierres terminado")
}

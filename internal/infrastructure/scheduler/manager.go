// Package scheduler ejecuta los trabajos periódicos del servicio (barrido de cierres) con gocron.
package scheduler

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// Job trabajo periódico registrable en el Manager.
type Job interface {
	Name() string
	Definition() gocron.JobDefinition
	Run(ctx context.Context)
}

// Manager envuelve el scheduler de gocron. Los trabajos reciben un ctx que se cancela en Stop.
type Manager struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	log       *logger.Logger
}

// NewManager crea el scheduler (sin arrancarlo).
func NewManager(log *logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.Nop()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{scheduler: s, ctx: ctx, cancel: cancel, log: log.Component("scheduler")}, nil
}

// Register agrega el trabajo. Una ejecución nunca se solapa con la anterior del mismo trabajo.
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.Definition(),
		gocron.NewTask(func() { job.Run(m.ctx) }),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	m.log.Info().Str("job", job.Name()).Msg("trabajo registrado")
	return nil
}

// Start arranca el scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
	m.log.Info().Int("jobs", len(m.scheduler.Jobs())).Msg("scheduler iniciado")
}

// Stop cancela los trabajos en curso y espera a que terminen.
func (m *Manager) Stop() error {
	m.cancel()
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	m.log.Info().Msg("scheduler detenido")
	return nil
}

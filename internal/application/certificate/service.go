// Package certificate genera los certificados de inversión de las suscripciones activadas.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

const generateTimeout = 30 * time.Second

// Generator puerto de salida que dibuja el PDF del certificado.
type Generator interface {
	Render(req entity.CertificateRequest, serial string, issuedAt time.Time) ([]byte, error)
}

// Service encola la generación de certificados en un pool acotado de goroutines.
// Trigger retorna en cuanto la tarea queda encolada; los fallos de generación solo se registran.
type Service struct {
	repo      repository.CertificateRepository
	generator Generator
	pool      *ants.Pool
	node      *snowflake.Node
	log       *logger.Logger
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewService crea el pool de workers y el nodo snowflake para los números de serie.
func NewService(repo repository.CertificateRepository, generator Generator, workers int, nodeID int64, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	if workers <= 0 {
		workers = 1
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("crear nodo snowflake %d: %w", nodeID, err)
	}
	s := &Service{
		repo:      repo,
		generator: generator,
		node:      node,
		log:       log.Component("certificate"),
		now:       time.Now,
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(r any) {
		s.log.Error().Interface("panic", r).Msg("panic generando certificado")
	}))
	if err != nil {
		return nil, fmt.Errorf("crear pool de certificados: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Trigger encola la generación. Devuelve error si la solicitud es inválida o el pool está cerrado.
func (s *Service) Trigger(ctx context.Context, req entity.CertificateRequest) error {
	if req.SubscriptionID == "" || req.InvestorID == "" {
		return domain.ErrInvalidInput
	}
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	err := s.pool.Submit(func() {
		defer s.wg.Done()
		s.generate(bg, req)
	})
	if err != nil {
		s.wg.Done()
		return fmt.Errorf("encolar certificado: %w", err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, req entity.CertificateRequest) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	log := s.log.Zerolog().With().Str("subscription_id", req.SubscriptionID).Logger()

	exists, err := s.repo.ExistsForSubscription(ctx, req.SubscriptionID)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo verificar certificado existente")
		return
	}
	if exists {
		log.Debug().Msg("la suscripción ya tiene certificado")
		return
	}

	issuedAt := s.now()
	serial := "CERT-" + s.node.Generate().String()
	pdf, err := s.generator.Render(req, serial, issuedAt)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo generar el PDF del certificado")
		return
	}
	created, err := s.repo.CreateIfAbsent(ctx, &entity.Certificate{
		ID:             uuid.New().String(),
		SubscriptionID: req.SubscriptionID,
		InvestorID:     req.InvestorID,
		SerialNumber:   serial,
		PDF:            pdf,
		IssuedAt:       issuedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("no se pudo guardar el certificado")
		return
	}
	if created {
		log.Info().Str("serial", serial).Msg("certificado emitido")
	}
}

// Get devuelve el certificado de la suscripción.
func (s *Service) Get(ctx context.Context, subscriptionID string) (*entity.Certificate, error) {
	if subscriptionID == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := s.repo.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Wait bloquea hasta que terminen las generaciones encoladas.
func (s *Service) Wait() { s.wg.Wait() }

// Close espera las tareas pendientes (hasta timeout) y libera el pool.
func (s *Service) Close(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.log.Warn().Msg("cerrando pool con certificados pendientes")
	}
	if err := s.pool.ReleaseTimeout(timeout); err != nil && !errors.Is(err, ants.ErrTimeout) {
		return err
	}
	return nil
}

package events

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/pkg/config"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*NATSPublisher)(nil)
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = (*NoopPublisher)(nil)
)

// Publisher publicador con ciclo de vida.
type Publisher interface {
	ports.EventPublisher
	Close() error
}

// NoopPublisher descarta los eventos (EVENTS_DRIVER=none); solo los deja en el log de debug.
type NoopPublisher struct {
	log *logger.Logger
}

// NewNoopPublisher construye el publicador nulo.
func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, subject, key string, _ any) error {
	p.log.Debug().Str("subject", subject).Str("key", key).Msg("evento descartado (driver none)")
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

// New elige el adaptador según EVENTS_DRIVER.
func New(cfg config.EventsConfig, clientName string, log *logger.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsDriverNATS:
		return NewNATSPublisher(cfg.NATSURL, clientName)
	case config.EventsDriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, clientName)
	case config.EventsDriverNone, "":
		return NewNoopPublisher(log), nil
	default:
		return nil, fmt.Errorf("events: driver desconocido %q", cfg.Driver)
	}
}

// Package events implementa ports.EventPublisher sobre NATS, Kafka o un publicador nulo.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publica cada evento como JSON en el subject indicado.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher conecta con el servidor NATS.
func NewNATSPublisher(url, clientName string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name(clientName), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish serializa y publica. key viaja como header para que los consumidores agrupen.
func (p *NATSPublisher) Publish(_ context.Context, subject, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	if key != "" {
		msg.Header.Set("Key", key)
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close vacía el buffer pendiente y cierra la conexión.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

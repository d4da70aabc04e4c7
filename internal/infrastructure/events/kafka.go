package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
)

// KafkaPublisher publica en el topic derivado del subject ("closing.deal.closed" -> "closing-deal-closed").
// Usa productor síncrono: el cierre quiere saber si el evento salió.
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

// NewKafkaPublisher crea el productor con confirmación del líder y reintentos.
func NewKafkaPublisher(brokers []string, clientID string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer}, nil
}

// NewKafkaPublisherFromProducer envuelve un productor ya creado (o simulado).
func NewKafkaPublisherFromProducer(p sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

// Publish serializa y envía; key fija la partición.
func (p *KafkaPublisher) Publish(_ context.Context, subject, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", subject, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: TopicFor(subject),
		Value: sarama.ByteEncoder(data),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Topic, err)
	}
	return nil
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// TopicFor nombre de topic Kafka para un subject.
func TopicFor(subject string) string {
	return strings.ReplaceAll(subject, ".", "-")
}

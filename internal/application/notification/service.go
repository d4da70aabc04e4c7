// Package notification crea notificaciones del portal y solicita su envío por email.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// EmailRequested evento que consume el servicio de correo.
type EmailRequested struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           string    `json:"link,omitempty"`
	Type           string    `json:"type"`
	DealID         *string   `json:"deal_id,omitempty"`
	RequestedAt    time.Time `json:"requested_at"`
}

// Service persiste la notificación y, si SendEmail, publica la solicitud de email.
type Service struct {
	repo   repository.NotificationRepository
	events ports.EventPublisher
	log    *logger.Logger
}

// NewService construye el servicio.
func NewService(repo repository.NotificationRepository, events ports.EventPublisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, events: events, log: log.Component("notification")}
}

// CreateInvestorNotification guarda la notificación. Un fallo al publicar el email no revierte la fila.
func (s *Service) CreateInvestorNotification(ctx context.Context, n *entity.Notification) error {
	if n == nil || strings.TrimSpace(n.UserID) == "" || strings.TrimSpace(n.Title) == "" {
		return domain.ErrInvalidInput
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("crear notificación: %w", err)
	}
	if !n.SendEmail {
		return nil
	}
	err := s.events.Publish(ctx, ports.SubjectEmailRequested, n.UserID, EmailRequested{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		Link:           n.Link,
		Type:           n.Type,
		DealID:         n.DealID,
		RequestedAt:    n.CreatedAt,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("notification_id", n.ID).Msg("no se pudo solicitar email")
	}
	return nil
}

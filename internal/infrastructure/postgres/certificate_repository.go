package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo persiste PDFs de certificados en subscription_certificates.
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

// ExistsForSubscription indica si la suscripción ya tiene certificado.
func (r *CertificateRepo) ExistsForSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscription_certificates WHERE subscription_id = $1)`, subscriptionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check certificate: %w", err)
	}
	return exists, nil
}

// CreateIfAbsent guarda el certificado salvo que la suscripción ya tenga uno.
func (r *CertificateRepo) CreateIfAbsent(ctx context.Context, c *entity.Certificate) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO subscription_certificates (id, subscription_id, investor_id, serial_number, pdf, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subscription_id) DO NOTHING`,
		c.ID, c.SubscriptionID, c.InvestorID, c.SerialNumber, c.PDF, c.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// colisión de serial: la suscripción quedó sin certificado
			return false, fmt.Errorf("insert certificate %s: %w", c.SerialNumber, domain.ErrDuplicate)
		}
		return false, fmt.Errorf("insert certificate: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetBySubscriptionID obtiene el certificado (con el PDF).
func (r *CertificateRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Certificate, error) {
	var c entity.Certificate
	err := r.q.QueryRow(ctx, `
		SELECT id, subscription_id, investor_id, serial_number, pdf, issued_at
		FROM subscription_certificates WHERE subscription_id = $1`, subscriptionID,
	).Scan(&c.ID, &c.SubscriptionID, &c.InvestorID, &c.SerialNumber, &c.PDF, &c.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// certificateGetter lo implementa *certificate.Service.
type certificateGetter interface {
	Get(ctx context.Context, subscriptionID string) (*entity.Certificate, error)
}

// CertificateHandler descarga el PDF del certificado de una suscripción.
type CertificateHandler struct {
	svc certificateGetter
}

// NewCertificateHandler construye el handler.
func NewCertificateHandler(svc certificateGetter) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

// Download godoc
// @Summary      Descargar certificado de inversión
// @Tags         certificates
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/certificate [get]
func (h *CertificateHandler) Download(c *fiber.Ctx) error {
	cert, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, cert.SerialNumber))
	return c.Send(cert.PDF)
}

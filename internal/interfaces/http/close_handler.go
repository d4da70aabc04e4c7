package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// closer lo implementa *closing.Processor.
type closer interface {
	CloseDeal(ctx context.Context, dealID string) *dto.CloseResult
	CloseTermsheet(ctx context.Context, termsheetID string) *dto.CloseResult
}

// readinessChecker lo implementa *closing.Sweeper.
type readinessChecker interface {
	DealReadiness(ctx context.Context, dealID string) (*dto.DealReadinessResponse, error)
}

// CloseHandler maneja el cierre manual de deals y termsheets (rol ops o admin).
type CloseHandler struct {
	closer    closer
	readiness readinessChecker
	log       *logger.Logger
}

// NewCloseHandler construye el handler.
func NewCloseHandler(c closer, r readinessChecker, log *logger.Logger) *CloseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CloseHandler{closer: c, readiness: r, log: log.Component("close_handler")}
}

// CloseDeal godoc
// @Summary      Cerrar deal
// @Tags         closing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {object}  dto.CloseResult
// @Failure      404  {object}  dto.CloseResult
// @Failure      409  {object}  dto.CloseResult
// @Router       /api/deals/{id}/close [post]
func (h *CloseHandler) CloseDeal(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	h.log.Info().Str("deal_id", id).Str("user_id", GetUserID(c)).Msg("cierre manual de deal")
	return h.respond(c, h.closer.CloseDeal(c.UserContext(), id))
}

// CloseTermsheet godoc
// @Summary      Cerrar termsheet
// @Tags         closing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del termsheet"
// @Success      200  {object}  dto.CloseResult
// @Failure      404  {object}  dto.CloseResult
// @Failure      409  {object}  dto.CloseResult
// @Router       /api/termsheets/{id}/close [post]
func (h *CloseHandler) CloseTermsheet(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	h.log.Info().Str("termsheet_id", id).Str("user_id", GetUserID(c)).Msg("cierre manual de termsheet")
	return h.respond(c, h.closer.CloseTermsheet(c.UserContext(), id))
}

// DealReadiness godoc
// @Summary      Consultar si el deal está listo para cierre
// @Tags         closing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {object}  dto.DealReadinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/readiness [get]
func (h *CloseHandler) DealReadiness(c *fiber.Ctx) error {
	out, err := h.readiness.DealReadiness(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// respond devuelve siempre el CloseResult; el estado HTTP sale de la causa que abortó el cierre.
func (h *CloseHandler) respond(c *fiber.Ctx, res *dto.CloseResult) error {
	if res.Cause != nil {
		status, _ := statusFor(res.Cause)
		return c.Status(status).JSON(res)
	}
	return c.JSON(res)
}

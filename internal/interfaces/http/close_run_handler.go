package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dealroom-api/internal/application/dto"
)

// closeRunLister lo implementa *closing.HistoryUseCase.
type closeRunLister interface {
	List(ctx context.Context, in dto.CloseRunListRequest) (*dto.CloseRunListResponse, error)
}

// CloseRunHandler expone el historial de ejecuciones de cierre.
type CloseRunHandler struct {
	uc closeRunLister
}

// NewCloseRunHandler construye el handler.
func NewCloseRunHandler(uc closeRunLister) *CloseRunHandler {
	return &CloseRunHandler{uc: uc}
}

// List godoc
// @Summary      Listar ejecuciones de cierre
// @Tags         closing
// @Security     Bearer
// @Produce      json
// @Param        target_kind  query  string  false  "deal | termsheet"
// @Param        target_id    query  string  false  "ID del objetivo"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CloseRunListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/close-runs [get]
func (h *CloseRunHandler) List(c *fiber.Ctx) error {
	var in dto.CloseRunListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/application/usecase"
	"github.com/jhoicas/movimientos-api/internal/domain"
)

// InventoryHandler lecturas de stock por ubicación (protegido). El stock solo
// lo mutan los movimientos confirmados; aquí no hay escrituras.
type InventoryHandler struct {
	uc *usecase.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ListByLocation godoc
// @Summary      Stock por ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  path   string  true   "ID de la ubicación"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.InventoryRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/{location_id} [get]
func (h *InventoryHandler) ListByLocation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	locationID := c.Params("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "location_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListByLocation(c.Context(), companyID, locationID, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownLocation) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/application/stats"
)

// StatsHandler agregados del libro de movimientos para tableros (protegido).
type StatsHandler struct {
	uc *stats.UseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.UseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// GetStats godoc
// @Summary      Conteos de movimientos por dirección y estado
// @Description  Salientes por origen y entrantes (solo TRANSFER) por destino,
// @Description  con los cuatro estados siempre presentes aunque estén en cero.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Restringir a una ubicación"
// @Success      200  {object}  dto.MovementStatsDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/movements/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var allowed []string
	if loc := c.Query("location_id"); loc != "" {
		allowed = []string{loc}
	}
	out, err := h.uc.GetStats(c.Context(), companyID, allowed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

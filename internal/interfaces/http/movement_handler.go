package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Crear movimiento (queda PENDING, no toca stock)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "kind, origin_id, lines; destination_id/beneficiary/cause según kind"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" || actor.CompanyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]ledger.CreateLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.CreateLineInput{ProductID: l.ProductID, Quantity: l.Quantity, Notes: l.Notes})
	}
	m, err := h.uc.CreateMovement(c.Context(), actor, ledger.CreateMovementInput{
		Kind:          in.Kind,
		OriginID:      in.OriginID,
		DestinationID: in.DestinationID,
		Beneficiary:   in.Beneficiary,
		Cause:         in.Cause,
		Lines:         lines,
		Notes:         in.Notes,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// Confirm godoc
// @Summary      Confirmar movimiento (reconciliación + stock, atómico)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del movimiento"
// @Param        body  body  dto.ConfirmMovementRequest  true  "partial, receipts (por producto), notes"
// @Success      200   {object}  dto.MovementResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/confirm [post]
func (h *MovementHandler) Confirm(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.ConfirmMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var receipts map[string]decimal.Decimal
	if len(in.Receipts) > 0 {
		receipts = make(map[string]decimal.Decimal, len(in.Receipts))
		for _, r := range in.Receipts {
			receipts[r.ProductID] = r.Received
		}
	}
	mode := movement.ModeFull
	if in.Partial {
		mode = movement.ModePartial
	}
	m, err := h.uc.ConfirmMovement(c.Context(), actor, c.Params("id"), receipts, mode, in.Notes)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// Cancel godoc
// @Summary      Cancelar movimiento PENDING (requiere motivo, no toca stock)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.CancelMovementRequest  true  "reason"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CancelMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.uc.CancelMovement(c.Context(), actor, c.Params("id"), in.Reason)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// Delete godoc
// @Summary      Borrar movimiento (privilegiado, nunca COMPLETED)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	actor := GetActor(c)
	if err := h.uc.DeleteMovement(c.Context(), actor, c.Params("id")); err != nil {
		return movementError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener movimiento con sus líneas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	actor := GetActor(c)
	m, err := h.uc.GetMovement(c.Context(), actor, c.Params("id"))
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// List godoc
// @Summary      Listar movimientos de la empresa
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        direction    query  string  false  "outgoing | incoming"
// @Param        location_id  query  string  false  "Filtrar por ubicación (repetible)"
// @Param        status       query  string  false  "PENDING | PARTIAL | COMPLETED | CANCELLED"
// @Param        kind         query  string  false  "TRANSFER | SALE | WRITE_OFF"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Param        limit        query  int     false  "Límite (default 50)"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	f := repository.MovementFilter{
		Direction: repository.Direction(c.Query("direction")),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}
	if ids := queryMulti(c, "location_id"); len(ids) > 0 {
		f.LocationIDs = ids
	}
	if s := c.Query("status"); s != "" {
		status, err := movement.ParseStatus(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status desconocido"})
		}
		f.Statuses = []entity.Status{status}
	}
	if k := c.Query("kind"); k != "" {
		kind, err := movement.ParseKind(k)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind desconocido"})
		}
		f.Kinds = []entity.Kind{kind}
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		f.To = &t
	}

	list, err := h.uc.ListMovements(c.Context(), actor, f)
	if err != nil {
		return movementError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// queryMulti devuelve todos los valores de un query param repetido
// (c.Query solo entrega el primero).
func queryMulti(c *fiber.Ctx, key string) []string {
	var vals []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := string(v); s != "" {
			vals = append(vals, s)
		}
	}
	return vals
}

// movementError traduce errores de dominio del libro a código HTTP + cuerpo
// estable. Cada sentinela tiene exactamente una traducción.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyLines),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrSameOriginDestination),
		errors.Is(err, domain.ErrMissingReason),
		errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownLocation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_LOCATION", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CONFIRMED", Message: "el movimiento ya fue confirmado o cancelado"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "modificación concurrente, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// MovementLineRequest una línea (producto, cantidad) al crear un movimiento.
type MovementLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Notes     string          `json:"notes,omitempty"`
}

// CreateMovementRequest body para POST /api/movements.
// Según type aplica destination_id (transfer), beneficiary (sale) o cause (write_off).
type CreateMovementRequest struct {
	Kind          string                `json:"kind" validate:"required"`
	OriginID      string                `json:"origin_id" validate:"required,uuid"`
	DestinationID string                `json:"destination_id,omitempty"`
	Beneficiary   string                `json:"beneficiary,omitempty"`
	Cause         string                `json:"cause,omitempty"`
	Lines         []MovementLineRequest `json:"lines" validate:"required,min=1"`
	Notes         string                `json:"notes,omitempty"`
}

// ReceiptRequest cantidad recibida de un producto al confirmar.
type ReceiptRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Received  decimal.Decimal `json:"received"`
}

// ConfirmMovementRequest body para POST /api/movements/:id/confirm.
// partial declara el modo: en falso las líneas omitidas se reciben completas;
// en verdadero las omitidas cuentan como cero.
type ConfirmMovementRequest struct {
	Partial  bool             `json:"partial"`
	Receipts []ReceiptRequest `json:"receipts,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// CancelMovementRequest body para POST /api/movements/:id/cancel.
type CancelMovementRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MovementLineResponse una línea en respuestas.
type MovementLineResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	Dispatched decimal.Decimal  `json:"dispatched"`
	Received   *decimal.Decimal `json:"received,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento con sus líneas.
type MovementResponse struct {
	ID            string                 `json:"id"`
	CompanyID     string                 `json:"company_id"`
	Kind          string                 `json:"kind"`
	OriginID      string                 `json:"origin_id"`
	DestinationID string                 `json:"destination_id,omitempty"`
	Beneficiary   string                 `json:"beneficiary,omitempty"`
	Cause         string                 `json:"cause,omitempty"`
	Status        string                 `json:"status"`
	CreatedBy     string                 `json:"created_by"`
	ConfirmedBy   *string                `json:"confirmed_by,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	ConfirmedAt   *time.Time             `json:"confirmed_at,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	ConfirmNotes  string                 `json:"confirm_notes,omitempty"`
	CancelReason  *string                `json:"cancel_reason,omitempty"`
	Lines         []MovementLineResponse `json:"lines"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	resp := MovementResponse{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Kind:          string(m.Kind),
		OriginID:      m.OriginID,
		DestinationID: m.DestinationID,
		Beneficiary:   m.Beneficiary,
		Cause:         m.Cause,
		Status:        string(m.Status),
		CreatedBy:     m.CreatedBy,
		ConfirmedBy:   m.ConfirmedBy,
		CreatedAt:     m.CreatedAt,
		ConfirmedAt:   m.ConfirmedAt,
		Notes:         m.Notes,
		ConfirmNotes:  m.ConfirmNotes,
		CancelReason:  m.CancelReason,
	}
	for _, l := range m.Lines {
		resp.Lines = append(resp.Lines, MovementLineResponse{
			ID:         l.ID,
			ProductID:  l.ProductID,
			Dispatched: l.Dispatched,
			Received:   l.Received,
			Notes:      l.Notes,
		})
	}
	return resp
}

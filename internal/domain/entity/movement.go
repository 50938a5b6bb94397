package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind clasifica un movimiento de inventario.
type Kind string

// Tipos de movimiento soportados por el libro de movimientos.
const (
	KindTransfer Kind = "TRANSFER"  // traslado entre ubicaciones
	KindSale     Kind = "SALE"      // venta a un tercero
	KindWriteOff Kind = "WRITE_OFF" // baja por merma, daño o pérdida
)

// Status es el estado canónico de un movimiento. Solo avanza:
// PENDING -> {PARTIAL, COMPLETED, CANCELLED}; los tres últimos son terminales.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIAL"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal informa si el estado no admite más transiciones.
func (s Status) Terminal() bool {
	return s == StatusPartial || s == StatusCompleted || s == StatusCancelled
}

// Movement es la cabecera de un movimiento que afecta stock.
// Según Kind aplica un campo de destino distinto: DestinationID (TRANSFER),
// Beneficiary (SALE) o Cause (WRITE_OFF); los otros dos quedan vacíos.
type Movement struct {
	ID            string
	CompanyID     string
	Kind          Kind
	OriginID      string // ubicación de origen, siempre presente
	DestinationID string // TRANSFER: ubicación destino
	Beneficiary   string // SALE: referencia libre del comprador
	Cause         string // WRITE_OFF: causa de la baja
	Status        Status
	CreatedBy     string
	ConfirmedBy   *string // nil hasta confirmar
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	Notes         string  // notas al crear
	ConfirmNotes  string  // notas al confirmar
	CancelReason  *string // obligatorio cuando Status = CANCELLED
	Lines         []*MovementLine
}

// MovementLine es una línea de producto dentro de un movimiento.
// Dispatched es inmutable desde la creación; Received se escribe una sola vez
// al confirmar y después nunca cambia (hecho histórico).
type MovementLine struct {
	ID         string
	MovementID string
	ProductID  string
	Dispatched decimal.Decimal
	Received   *decimal.Decimal // nil hasta confirmar
	Notes      string
}

// LineByProduct busca la línea de un producto; nil si no existe.
func (m *Movement) LineByProduct(productID string) *MovementLine {
	for _, l := range m.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

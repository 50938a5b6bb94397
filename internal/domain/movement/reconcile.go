package movement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// LineOutcome clasifica una línea según lo recibido frente a lo despachado.
type LineOutcome string

const (
	LineExact LineOutcome = "EXACT" // recibido == despachado
	LineShort LineOutcome = "SHORT" // recibido < despachado (pérdida en tránsito)
	LineOver  LineOutcome = "OVER"  // recibido > despachado (sobre-entrega)
)

// Mode indica cómo interpretar líneas omitidas en la confirmación.
type Mode int

const (
	// ModeFull: línea omitida = se recibió exactamente lo despachado.
	ModeFull Mode = iota
	// ModePartial: línea omitida = no se recibió nada (cero).
	ModePartial
)

// ReceiptLine es el resultado de reconciliar una línea.
type ReceiptLine struct {
	LineID    string
	ProductID string
	Received  decimal.Decimal
	Outcome   LineOutcome
}

// Reconciliation es el resultado completo: líneas con cantidad recibida
// definitiva y el estado terminal que corresponde.
type Reconciliation struct {
	Lines   []ReceiptLine
	Outcome entity.Status
}

// OutcomePolicy decide el estado terminal a partir de las líneas reconciliadas.
// Es un punto de política configurable: la regla exacta PARTIAL/COMPLETED no
// está fijada por el negocio, así que se inyecta.
type OutcomePolicy func(lines []ReceiptLine) entity.Status

// AnyShortIsPartial es la política por defecto: si al menos una línea quedó
// corta el movimiento es PARTIAL; solo-EXACT u OVER sin cortos es COMPLETED.
func AnyShortIsPartial(lines []ReceiptLine) entity.Status {
	for _, l := range lines {
		if l.Outcome == LineShort {
			return entity.StatusPartial
		}
	}
	return entity.StatusCompleted
}

// Reconcile calcula, para cada línea del movimiento, la cantidad recibida
// definitiva (enviada por el receptor, o el valor por defecto del modo) y su
// clasificación. Función pura: no toca stock ni persiste nada.
//
// submitted va indexado por ProductID (las líneas están deduplicadas por
// producto desde la creación). Valores negativos se ajustan a cero: lo
// recibido nunca es negativo.
func Reconcile(m *entity.Movement, submitted map[string]decimal.Decimal, mode Mode, policy OutcomePolicy) (*Reconciliation, error) {
	if len(m.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	if policy == nil {
		policy = AnyShortIsPartial
	}

	// Rechazar productos que no pertenecen al movimiento.
	for productID := range submitted {
		if m.LineByProduct(productID) == nil {
			return nil, domain.ErrInvalidInput
		}
	}

	lines := make([]ReceiptLine, 0, len(m.Lines))
	for _, l := range m.Lines {
		received, ok := submitted[l.ProductID]
		if !ok {
			if mode == ModeFull {
				received = l.Dispatched
			} else {
				received = decimal.Zero
			}
		}
		if received.IsNegative() {
			received = decimal.Zero
		}

		outcome := LineExact
		switch received.Cmp(l.Dispatched) {
		case -1:
			outcome = LineShort
		case 1:
			outcome = LineOver
		}
		lines = append(lines, ReceiptLine{
			LineID:    l.ID,
			ProductID: l.ProductID,
			Received:  received,
			Outcome:   outcome,
		})
	}

	return &Reconciliation{Lines: lines, Outcome: policy(lines)}, nil
}

// Package movement contiene la lógica pura del libro de movimientos:
// parseo de estados y tipos en la frontera, la máquina de estados y la
// reconciliación de cantidades recibidas. Sin I/O.
package movement

import (
	"strings"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// statusAliases mapea cada variante observada en clientes y datos históricos
// (casings, sinónimos, español/inglés) a su estado canónico. El parseo ocurre
// una sola vez en la frontera; aguas abajo solo circula entity.Status.
var statusAliases = map[string]entity.Status{
	"pending":    entity.StatusPending,
	"pendiente":  entity.StatusPending,
	"open":       entity.StatusPending,
	"created":    entity.StatusPending,
	"in_transit": entity.StatusPending,

	"partial":            entity.StatusPartial,
	"parcial":            entity.StatusPartial,
	"incomplete":         entity.StatusPartial,
	"partially_received": entity.StatusPartial,

	"completed":  entity.StatusCompleted,
	"complete":   entity.StatusCompleted,
	"completado": entity.StatusCompleted,
	"done":       entity.StatusCompleted,
	"received":   entity.StatusCompleted,

	"cancelled": entity.StatusCancelled,
	"canceled":  entity.StatusCancelled,
	"cancelado": entity.StatusCancelled,
	"void":      entity.StatusCancelled,
}

// kindAliases igual que statusAliases pero para el tipo de movimiento.
var kindAliases = map[string]entity.Kind{
	"transfer": entity.KindTransfer,
	"traslado": entity.KindTransfer,

	"sale":  entity.KindSale,
	"venta": entity.KindSale,

	"write_off": entity.KindWriteOff,
	"write-off": entity.KindWriteOff,
	"writeoff":  entity.KindWriteOff,
	"merma":     entity.KindWriteOff,
	"waste":     entity.KindWriteOff,
	"loss":      entity.KindWriteOff,
}

// ParseStatus normaliza una cadena de estado a su valor canónico.
func ParseStatus(s string) (entity.Status, error) {
	if st, ok := statusAliases[normalize(s)]; ok {
		return st, nil
	}
	return "", domain.ErrInvalidInput
}

// ParseKind normaliza una cadena de tipo de movimiento a su valor canónico.
func ParseKind(s string) (entity.Kind, error) {
	if k, ok := kindAliases[normalize(s)]; ok {
		return k, nil
	}
	return "", domain.ErrInvalidInput
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

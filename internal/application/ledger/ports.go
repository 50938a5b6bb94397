package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del libro:
// cabecera, líneas y filas de stock se confirman juntas o ninguna.
// En conflicto de transacción (serialización, deadlock) la implementación
// devuelve domain.ErrConcurrentModification envuelto, y el caso de uso reintenta.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		recordRepo repository.InventoryRecordRepository,
	) error) error
}

// Actor identifica a quien invoca una operación (sale del token JWT).
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

// Capabilities es el servicio de identidad/permisos que el núcleo consulta
// antes de mutar. El núcleo no implementa lógica de roles; solo pregunta.
type Capabilities interface {
	CanConfirm(actor Actor, m *entity.Movement) bool
	CanCancel(actor Actor, m *entity.Movement) bool
	CanDeletePermanently(actor Actor) bool
}

// ChangeEvent es el evento lógico "movimiento cambió" emitido después de cada
// transacción confirmada. La entrega (polling, push, websocket) es externa.
type ChangeEvent struct {
	MovementID string
	CompanyID  string
	Kind       entity.Kind
	Status     entity.Status
	Deleted    bool
	OccurredAt time.Time
}

// Notifier recibe los eventos de cambio. Las implementaciones no deben
// bloquear: el núcleo emite después del commit y sigue.
type Notifier interface {
	MovementChanged(ev ChangeEvent)
}

// NopNotifier descarta los eventos (tests, CLI).
type NopNotifier struct{}

func (NopNotifier) MovementChanged(ChangeEvent) {}

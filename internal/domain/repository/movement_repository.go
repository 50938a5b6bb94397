package repository

import (
	"context"
	"time"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// Direction filtra listados por lado del movimiento respecto a las ubicaciones
// dadas: salientes (origen) o entrantes (destino, solo TRANSFER).
type Direction string

const (
	DirectionAny      Direction = ""
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// MovementFilter criterios de listado del libro de movimientos.
type MovementFilter struct {
	CompanyID   string
	LocationIDs []string // vacío = sin restricción por ubicación
	Direction   Direction
	Statuses    []entity.Status
	Kinds       []entity.Kind
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Create persiste cabecera y líneas como una sola escritura; GetForUpdate
// bloquea la cabecera (SELECT FOR UPDATE) para el patrón releer-y-escribir de
// la confirmación/cancelación. Todas las escrituras de confirmación y
// cancelación ocurren dentro de la transacción que el TxRunner provee.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)

	// UpdateConfirmation escribe estado, confirmador, fecha, notas y el
	// Received de cada línea. Solo se invoca una vez por movimiento.
	UpdateConfirmation(ctx context.Context, m *entity.Movement) error

	// UpdateCancellation escribe estado CANCELLED y el motivo; nada más.
	UpdateCancellation(ctx context.Context, m *entity.Movement) error

	// Delete elimina cabecera y líneas. El caso de uso garantiza que el
	// movimiento no está COMPLETED.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
}

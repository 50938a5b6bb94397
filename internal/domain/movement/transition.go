package movement

import (
	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// Transition aplica la regla de avance monótono de estados:
// PENDING -> {PARTIAL, COMPLETED, CANCELLED}; los terminales no admiten salida.
// Tanto la confirmación como la cancelación pasan por aquí, de modo que la
// regla vive en un solo lugar.
func Transition(current, requested entity.Status) (entity.Status, error) {
	if current.Terminal() {
		return current, domain.ErrInvalidState
	}
	switch requested {
	case entity.StatusPartial, entity.StatusCompleted, entity.StatusCancelled:
		return requested, nil
	case entity.StatusPending:
		// PENDING -> PENDING no es un avance.
		return current, domain.ErrInvalidState
	default:
		return current, domain.ErrInvalidInput
	}
}

package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
)

// Desde PENDING se permite avanzar a cualquiera de los tres terminales.
func TestTransition_DesdePending(t *testing.T) {
	for _, target := range []entity.Status{entity.StatusPartial, entity.StatusCompleted, entity.StatusCancelled} {
		got, err := movement.Transition(entity.StatusPending, target)
		require.NoError(t, err, "PENDING -> %s debe permitirse", target)
		assert.Equal(t, target, got)
	}
}

// Ningún estado terminal admite transición de salida (estado solo avanza).
func TestTransition_TerminalesBloqueados(t *testing.T) {
	terminals := []entity.Status{entity.StatusPartial, entity.StatusCompleted, entity.StatusCancelled}
	targets := []entity.Status{entity.StatusPending, entity.StatusPartial, entity.StatusCompleted, entity.StatusCancelled}
	for _, from := range terminals {
		for _, to := range targets {
			got, err := movement.Transition(from, to)
			assert.ErrorIs(t, err, domain.ErrInvalidState, "%s -> %s debe rechazarse", from, to)
			assert.Equal(t, from, got, "el estado actual no debe cambiar")
		}
	}
}

func TestTransition_PendingAPending(t *testing.T) {
	_, err := movement.Transition(entity.StatusPending, entity.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
)

// El parseo debe aceptar todas las variantes históricas (casings y sinónimos)
// y devolver siempre el enum canónico.
func TestParseStatus_VariantesHistoricas(t *testing.T) {
	cases := map[string]entity.Status{
		"pending":            entity.StatusPending,
		"PENDING":            entity.StatusPending,
		"  Pendiente ":       entity.StatusPending,
		"in_transit":         entity.StatusPending,
		"partial":            entity.StatusPartial,
		"Parcial":            entity.StatusPartial,
		"partially_received": entity.StatusPartial,
		"COMPLETED":          entity.StatusCompleted,
		"done":               entity.StatusCompleted,
		"received":           entity.StatusCompleted,
		"cancelled":          entity.StatusCancelled,
		"canceled":           entity.StatusCancelled,
		"Cancelado":          entity.StatusCancelled,
		"void":               entity.StatusCancelled,
	}
	for raw, want := range cases {
		got, err := movement.ParseStatus(raw)
		require.NoError(t, err, "variante %q debe parsear", raw)
		assert.Equal(t, want, got, "variante %q", raw)
	}
}

func TestParseStatus_Desconocido(t *testing.T) {
	_, err := movement.ParseStatus("shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = movement.ParseStatus("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseKind_Variantes(t *testing.T) {
	cases := map[string]entity.Kind{
		"transfer":  entity.KindTransfer,
		"TRASLADO":  entity.KindTransfer,
		"sale":      entity.KindSale,
		"Venta":     entity.KindSale,
		"write_off": entity.KindWriteOff,
		"write-off": entity.KindWriteOff,
		"WRITEOFF":  entity.KindWriteOff,
		"merma":     entity.KindWriteOff,
		"loss":      entity.KindWriteOff,
	}
	for raw, want := range cases {
		got, err := movement.ParseKind(raw)
		require.NoError(t, err, "variante %q debe parsear", raw)
		assert.Equal(t, want, got)
	}

	_, err := movement.ParseKind("purchase")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

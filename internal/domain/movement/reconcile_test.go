package movement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func transferConLineas(t *testing.T) *entity.Movement {
	t.Helper()
	return &entity.Movement{
		ID:     "mov-1",
		Kind:   entity.KindTransfer,
		Status: entity.StatusPending,
		Lines: []*entity.MovementLine{
			{ID: "l1", MovementID: "mov-1", ProductID: "p1", Dispatched: qty(10)},
			{ID: "l2", MovementID: "mov-1", ProductID: "p2", Dispatched: qty(5)},
		},
	}
}

// Confirmación completa sin overrides: todas las líneas EXACT, resultado COMPLETED.
func TestReconcile_FullSinOverrides(t *testing.T) {
	m := transferConLineas(t)

	rec, err := movement.Reconcile(m, nil, movement.ModeFull, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, rec.Outcome)
	require.Len(t, rec.Lines, 2)
	for i, l := range rec.Lines {
		assert.Equal(t, movement.LineExact, l.Outcome)
		assert.True(t, l.Received.Equal(m.Lines[i].Dispatched), "recibido por defecto = despachado")
	}
}

// Una línea corta basta para que el resultado sea PARTIAL, aunque las demás
// sean EXACT u OVER.
func TestReconcile_LineaCortaImplicaPartial(t *testing.T) {
	m := transferConLineas(t)

	rec, err := movement.Reconcile(m, map[string]decimal.Decimal{
		"p1": qty(7), // corto: 7 < 10
	}, movement.ModeFull, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPartial, rec.Outcome)
	assert.Equal(t, movement.LineShort, rec.Lines[0].Outcome)
	assert.Equal(t, movement.LineExact, rec.Lines[1].Outcome)
	assert.True(t, rec.Lines[0].Received.Equal(qty(7)))
}

// Sobre-entrega sin líneas cortas sigue siendo COMPLETED.
func TestReconcile_SoloOverEsCompleted(t *testing.T) {
	m := transferConLineas(t)

	rec, err := movement.Reconcile(m, map[string]decimal.Decimal{
		"p1": qty(12), // over: 12 > 10
	}, movement.ModeFull, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, rec.Outcome)
	assert.Equal(t, movement.LineOver, rec.Lines[0].Outcome)
}

// En modo parcial, las líneas omitidas cuentan como recibido = 0 (SHORT).
func TestReconcile_ModePartialOmitidasEnCero(t *testing.T) {
	m := transferConLineas(t)

	rec, err := movement.Reconcile(m, map[string]decimal.Decimal{
		"p2": qty(5),
	}, movement.ModePartial, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPartial, rec.Outcome)
	assert.Equal(t, movement.LineShort, rec.Lines[0].Outcome)
	assert.True(t, rec.Lines[0].Received.IsZero(), "línea omitida en modo parcial = 0")
	assert.Equal(t, movement.LineExact, rec.Lines[1].Outcome)
}

// Cantidades negativas se ajustan a cero: lo recibido nunca es negativo.
func TestReconcile_NegativoSeAjustaACero(t *testing.T) {
	m := transferConLineas(t)

	rec, err := movement.Reconcile(m, map[string]decimal.Decimal{
		"p1": qty(-3),
	}, movement.ModeFull, nil)
	require.NoError(t, err)

	assert.True(t, rec.Lines[0].Received.IsZero())
	assert.Equal(t, movement.LineShort, rec.Lines[0].Outcome)
	assert.Equal(t, entity.StatusPartial, rec.Outcome)
}

// Producto que no pertenece al movimiento: entrada inválida.
func TestReconcile_ProductoAjenoRechazado(t *testing.T) {
	m := transferConLineas(t)

	_, err := movement.Reconcile(m, map[string]decimal.Decimal{
		"p9": qty(1),
	}, movement.ModeFull, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcile_SinLineas(t *testing.T) {
	m := &entity.Movement{ID: "mov-x", Status: entity.StatusPending}
	_, err := movement.Reconcile(m, nil, movement.ModeFull, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyLines)
}

// La política es inyectable: una política alternativa puede decidir distinto.
func TestReconcile_PoliticaConfigurable(t *testing.T) {
	m := transferConLineas(t)

	siempreCompleted := func(_ []movement.ReceiptLine) entity.Status { return entity.StatusCompleted }
	rec, err := movement.Reconcile(m, map[string]decimal.Decimal{"p1": qty(1)}, movement.ModeFull, siempreCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, rec.Outcome)
}

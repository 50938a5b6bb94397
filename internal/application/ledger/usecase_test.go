package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mismo contrato que los adaptadores postgres)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	movements map[string]*entity.Movement
	records   map[string]*entity.InventoryRecord
	locations map[string]*entity.Location

	// Ganchos para intercalar escrituras externas entre el bloqueo de una
	// fila y su escritura, como haría otra transacción concurrente.
	beforeStockLock    func(productID, locationID string)
	beforeMovementLock func(id string)
}

func newMemStore() *memStore {
	return &memStore{
		movements: make(map[string]*entity.Movement),
		records:   make(map[string]*entity.InventoryRecord),
		locations: make(map[string]*entity.Location),
	}
}

func recordKey(productID, locationID string) string { return productID + "|" + locationID }

func (s *memStore) seedStock(productID, locationID string, qty int64) {
	s.records[recordKey(productID, locationID)] = &entity.InventoryRecord{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
	}
}

func (s *memStore) stock(productID, locationID string) decimal.Decimal {
	if r, ok := s.records[recordKey(productID, locationID)]; ok {
		return r.Quantity
	}
	return decimal.Zero
}

func (s *memStore) hasRecord(productID, locationID string) bool {
	_, ok := s.records[recordKey(productID, locationID)]
	return ok
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Lines = make([]*entity.MovementLine, len(m.Lines))
	for i, l := range m.Lines {
		lc := *l
		cp.Lines[i] = &lc
	}
	return &cp
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	return cloneMovement(r.s.movements[id]), nil
}

func (r *memMovementRepo) GetForUpdate(_ context.Context, id string) (*entity.Movement, error) {
	if r.s.beforeMovementLock != nil {
		r.s.beforeMovementLock(id)
	}
	return cloneMovement(r.s.movements[id]), nil
}

func (r *memMovementRepo) UpdateConfirmation(_ context.Context, m *entity.Movement) error {
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *memMovementRepo) UpdateCancellation(_ context.Context, m *entity.Movement) error {
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *memMovementRepo) Delete(_ context.Context, id string) error {
	delete(r.s.movements, id)
	return nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.CompanyID != "" && m.CompanyID != f.CompanyID {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	return out, nil
}

type memRecordRepo struct{ s *memStore }

func (r *memRecordRepo) GetForUpdate(_ context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	if r.s.beforeStockLock != nil {
		r.s.beforeStockLock(productID, locationID)
	}
	if rec, ok := r.s.records[recordKey(productID, locationID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.InventoryRecord{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

// Add incrementa sobre el valor vigente del store, igual que el adaptador
// postgres incrementa sobre la fila y no sobre una lectura previa.
func (r *memRecordRepo) Add(_ context.Context, productID, locationID string, delta decimal.Decimal) error {
	key := recordKey(productID, locationID)
	rec, ok := r.s.records[key]
	if !ok {
		rec = &entity.InventoryRecord{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}
		r.s.records[key] = rec
	}
	rec.Quantity = rec.Quantity.Add(delta)
	return nil
}

func (r *memRecordRepo) ListByLocation(_ context.Context, locationID string, _, _ int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.LocationID == locationID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memLocationRepo struct{ s *memStore }

func (r *memLocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = l
	return nil
}
func (r *memLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}
func (r *memLocationRepo) Update(_ context.Context, l *entity.Location) error { return nil }
func (r *memLocationRepo) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Location, error) {
	return nil, nil
}
func (r *memLocationRepo) Delete(_ context.Context, _ string) error { return nil }

// memTxRunner ejecuta fn directamente sobre el store; puede simular conflictos
// de transacción devolviendo ErrConcurrentModification las primeras N veces.
type memTxRunner struct {
	s         *memStore
	conflicts int
	attempts  int
}

func (r *memTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.InventoryRecordRepository) error) error {
	r.attempts++
	if r.conflicts > 0 {
		r.conflicts--
		return fmt.Errorf("tx: %w", domain.ErrConcurrentModification)
	}
	return fn(&memMovementRepo{r.s}, &memRecordRepo{r.s})
}

type allowAllCaps struct{}

func (allowAllCaps) CanConfirm(a ledger.Actor, m *entity.Movement) bool { return a.CompanyID == m.CompanyID }
func (allowAllCaps) CanCancel(a ledger.Actor, m *entity.Movement) bool  { return a.CompanyID == m.CompanyID }
func (allowAllCaps) CanDeletePermanently(ledger.Actor) bool             { return true }

type denyAllCaps struct{}

func (denyAllCaps) CanConfirm(ledger.Actor, *entity.Movement) bool { return false }
func (denyAllCaps) CanCancel(ledger.Actor, *entity.Movement) bool  { return false }
func (denyAllCaps) CanDeletePermanently(ledger.Actor) bool         { return false }

type recordingNotifier struct{ events []ledger.ChangeEvent }

func (n *recordingNotifier) MovementChanged(ev ledger.ChangeEvent) { n.events = append(n.events, ev) }

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: empresa con dos ubicaciones A y B y stock inicial en A.
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "co-1"
	actorID   = "user-1"
	locA      = "loc-a"
	locB      = "loc-b"
)

var actor = ledger.Actor{UserID: actorID, CompanyID: companyID, Role: entity.RoleAdmin}

type fixture struct {
	store    *memStore
	tx       *memTxRunner
	uc       *ledger.UseCase
	notifier *recordingNotifier
}

func newFixture(t *testing.T, caps ledger.Capabilities) *fixture {
	t.Helper()
	store := newMemStore()
	store.locations[locA] = &entity.Location{ID: locA, CompanyID: companyID, Name: "Bodega A"}
	store.locations[locB] = &entity.Location{ID: locB, CompanyID: companyID, Name: "Bodega B"}
	store.seedStock("p1", locA, 100)
	store.seedStock("p2", locA, 50)

	tx := &memTxRunner{s: store}
	notifier := &recordingNotifier{}
	uc := ledger.NewUseCase(tx, &memMovementRepo{store}, &memLocationRepo{store}, caps, notifier, nil)
	return &fixture{store: store, tx: tx, uc: uc, notifier: notifier}
}

func (f *fixture) createTransfer(t *testing.T) *entity.Movement {
	t.Helper()
	m, err := f.uc.CreateMovement(context.Background(), actor, ledger.CreateMovementInput{
		Kind:          "transfer",
		OriginID:      locA,
		DestinationID: locB,
		Lines: []ledger.CreateLineInput{
			{ProductID: "p1", Quantity: decimal.NewFromInt(10)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_TransferPendiente(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	assert.Equal(t, entity.StatusPending, m.Status)
	assert.Equal(t, entity.KindTransfer, m.Kind)
	assert.Len(t, m.Lines, 2)
	// Crear no toca stock.
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(100)))
	assert.False(t, f.store.hasRecord("p1", locB))
}

func TestCreateMovement_Validaciones(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	ctx := context.Background()

	_, err := f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "transfer", OriginID: locA, DestinationID: locB,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyLines, "sin líneas")

	_, err = f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "transfer", OriginID: locA, DestinationID: locB,
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad cero")

	_, err = f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "transfer", OriginID: locA, DestinationID: locA,
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrSameOriginDestination)

	_, err = f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "transfer", OriginID: "loc-x", DestinationID: locB,
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownLocation, "origen inexistente")

	_, err = f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "sale", OriginID: locA,
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin beneficiario")

	_, err = f.uc.CreateMovement(ctx, actor, ledger.CreateMovementInput{
		Kind: "purchase", OriginID: locA,
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")
}

// Líneas repetidas del mismo producto se consolidan sumando cantidades.
func TestCreateMovement_DeduplicaPorProducto(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m, err := f.uc.CreateMovement(context.Background(), actor, ledger.CreateMovementInput{
		Kind: "sale", OriginID: locA, Beneficiary: "Cliente X",
		Lines: []ledger.CreateLineInput{
			{ProductID: "p1", Quantity: decimal.NewFromInt(3)},
			{ProductID: "p1", Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	require.Len(t, m.Lines, 1)
	assert.True(t, m.Lines[0].Dispatched.Equal(decimal.NewFromInt(7)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 1: transfer confirmado completo. Conservación de stock:
// origen baja lo despachado, destino sube lo recibido, estado COMPLETED.
func TestConfirmMovement_TransferCompleto(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "todo ok")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, got.Status)
	require.NotNil(t, got.ConfirmedBy)
	assert.Equal(t, actorID, *got.ConfirmedBy)
	assert.NotNil(t, got.ConfirmedAt)

	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(90)), "A.p1 -= 10")
	assert.True(t, f.store.stock("p2", locA).Equal(decimal.NewFromInt(45)), "A.p2 -= 5")
	assert.True(t, f.store.stock("p1", locB).Equal(decimal.NewFromInt(10)), "B.p1 += 10")
	assert.True(t, f.store.stock("p2", locB).Equal(decimal.NewFromInt(5)), "B.p2 += 5")

	for _, l := range got.Lines {
		require.NotNil(t, l.Received)
		assert.True(t, l.Received.Equal(l.Dispatched))
	}
}

// Escenario 2: recepción con faltante. Origen baja lo despachado (la pérdida
// en tránsito no vuelve al origen); destino sube solo lo recibido; PARTIAL.
func TestConfirmMovement_TransferConFaltante(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, map[string]decimal.Decimal{
		"p1": decimal.NewFromInt(7),
	}, movement.ModeFull, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPartial, got.Status)
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(90)), "origen baja lo despachado")
	assert.True(t, f.store.stock("p1", locB).Equal(decimal.NewFromInt(7)), "destino sube lo recibido")
	assert.True(t, f.store.stock("p2", locB).Equal(decimal.NewFromInt(5)))
}

// Escenario 3: venta. Solo el origen baja; no se crea fila destino.
func TestConfirmMovement_Venta(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m, err := f.uc.CreateMovement(context.Background(), actor, ledger.CreateMovementInput{
		Kind: "sale", OriginID: locA, Beneficiary: "Cliente X",
		Lines: []ledger.CreateLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(97)))
	assert.False(t, f.store.hasRecord("p1", locB), "venta no acredita destino")
}

// WRITE_OFF se comporta como venta en stock: solo resta el origen.
func TestConfirmMovement_Merma(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m, err := f.uc.CreateMovement(context.Background(), actor, ledger.CreateMovementInput{
		Kind: "merma", OriginID: locA, Cause: "producto vencido",
		Lines: []ledger.CreateLineInput{{ProductID: "p2", Quantity: decimal.NewFromInt(8)}},
	})
	require.NoError(t, err)

	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.True(t, f.store.stock("p2", locA).Equal(decimal.NewFromInt(42)))
}

// Escenario 4: stock insuficiente rechaza la transacción completa sin mutar
// nada y el movimiento sigue PENDING.
func TestConfirmMovement_StockInsuficiente(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	f.store.seedStock("p1", locA, 2) // menos que los 10 despachados
	m := f.createTransfer(t)

	_, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(2)), "sin mutación")
	assert.False(t, f.store.hasRecord("p1", locB))

	cur, err := f.uc.GetMovement(context.Background(), actor, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, cur.Status)
	assert.Nil(t, cur.Lines[0].Received)
}

// Escenario 6: segunda confirmación del mismo movimiento. El compare-and-set
// sobre el estado garantiza que el stock se aplica exactamente una vez.
func TestConfirmMovement_SegundaConfirmacionRechazada(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.uc.ConfirmMovement(ctx, actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)

	_, err = f.uc.ConfirmMovement(ctx, actor, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)

	// El stock no se aplicó dos veces.
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(90)))
	assert.True(t, f.store.stock("p1", locB).Equal(decimal.NewFromInt(10)))
}

// Confirmación en modo parcial: líneas omitidas cuentan como cero recibido.
func TestConfirmMovement_ModoParcial(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, map[string]decimal.Decimal{
		"p1": decimal.NewFromInt(10),
	}, movement.ModePartial, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPartial, got.Status)
	assert.True(t, f.store.stock("p2", locA).Equal(decimal.NewFromInt(45)), "origen baja lo despachado igual")
	assert.False(t, f.store.hasRecord("p2", locB), "nada recibido de p2 en destino")
}

func TestConfirmMovement_SinPermiso(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	// Mismo store, caps que deniegan todo.
	ucDeny := ledger.NewUseCase(f.tx, &memMovementRepo{f.store}, &memLocationRepo{f.store}, denyAllCaps{}, nil, nil)
	_, err := ucDeny.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(100)), "sin efecto")
}

// Otro tenant no ve el movimiento: NotFound, no Forbidden.
func TestConfirmMovement_OtraEmpresaEsNotFound(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	ajeno := ledger.Actor{UserID: "user-9", CompanyID: "co-9", Role: entity.RoleAdmin}
	_, err := f.uc.ConfirmMovement(context.Background(), ajeno, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Conflictos de transacción se reintentan acotado; si persisten se devuelve
// ErrConcurrentModification.
func TestConfirmMovement_ReintentosAgotados(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	f.tx.conflicts = 100 // siempre en conflicto
	f.tx.attempts = 0
	_, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, 3, f.tx.attempts, "reintentos acotados")
}

// Dos transferencias entrantes concurrentes al mismo registro de destino: la
// escritura de destino es un incremento sobre el valor vigente, no un absoluto
// calculado de una lectura previa, así que un abono que se intercala entre el
// bloqueo y la escritura no se pierde.
func TestConfirmMovement_AbonoConcurrenteEnDestinoNoSePierde(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	f.store.seedStock("p1", locB, 100)
	m := f.createTransfer(t) // despacha p1:10 y p2:5 hacia B

	bumped := false
	f.store.beforeStockLock = func(productID, locationID string) {
		if productID == "p1" && locationID == locB && !bumped {
			bumped = true
			rec := f.store.records[recordKey("p1", locB)]
			rec.Quantity = rec.Quantity.Add(decimal.NewFromInt(5))
		}
	}

	_, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)
	require.True(t, bumped)

	assert.True(t, f.store.stock("p1", locB).Equal(decimal.NewFromInt(115)), "100 + 5 ajeno + 10 recibidos")
}

// Un conflicto transitorio se recupera en el siguiente intento.
func TestConfirmMovement_ConflictoTransitorio(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	f.tx.conflicts = 1
	got, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación y borrado
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 5: cancelar guarda el motivo y nunca toca stock.
func TestCancelMovement_PendienteSinEfectoEnStock(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	got, err := f.uc.CancelMovement(context.Background(), actor, m.ID, "destino equivocado")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelReason)
	assert.Equal(t, "destino equivocado", *got.CancelReason)
	assert.Nil(t, got.ConfirmedBy, "cancelar no escribe campos de confirmación")
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(100)))
	assert.False(t, f.store.hasRecord("p1", locB))
}

func TestCancelMovement_SinMotivo(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	_, err := f.uc.CancelMovement(context.Background(), actor, m.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrMissingReason)
}

// Estado solo avanza: un terminal no admite cancelación ni re-confirmación.
func TestMovimientoTerminal_NoAdmiteMasTransiciones(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.uc.CancelMovement(ctx, actor, m.ID, "cambio de plan")
	require.NoError(t, err)

	_, err = f.uc.CancelMovement(ctx, actor, m.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.ConfirmMovement(ctx, actor, m.ID, nil, movement.ModeFull, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
	assert.True(t, f.store.stock("p1", locA).Equal(decimal.NewFromInt(100)), "cancelado jamás aplica stock")
}

func TestDeleteMovement_CompletedProhibido(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.uc.ConfirmMovement(ctx, actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)

	err = f.uc.DeleteMovement(ctx, actor, m.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "COMPLETED nunca se borra")
}

func TestDeleteMovement_PendientePermitido(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)
	ctx := context.Background()

	require.NoError(t, f.uc.DeleteMovement(ctx, actor, m.ID))

	_, err := f.uc.GetMovement(ctx, actor, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El evento de borrado refleja el estado releído bajo bloqueo dentro de la
// transacción, no el de la lectura previa a ella.
func TestDeleteMovement_EventoConEstadoVigente(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	// Otro actor lleva el movimiento a PARTIAL entre la lectura inicial y el
	// bloqueo de la transacción de borrado.
	f.store.beforeMovementLock = func(id string) {
		f.store.movements[id].Status = entity.StatusPartial
	}
	require.NoError(t, f.uc.DeleteMovement(context.Background(), actor, m.ID))

	last := f.notifier.events[len(f.notifier.events)-1]
	assert.True(t, last.Deleted)
	assert.Equal(t, entity.StatusPartial, last.Status, "estado al momento de borrar")
}

func TestDeleteMovement_RequierePrivilegio(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)

	ucDeny := ledger.NewUseCase(f.tx, &memMovementRepo{f.store}, &memLocationRepo{f.store}, denyAllCaps{}, nil, nil)
	err := ucDeny.DeleteMovement(context.Background(), actor, m.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificación de cambios
// ──────────────────────────────────────────────────────────────────────────────

func TestNotifier_EmiteTrasCadaTransicion(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	m := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.uc.ConfirmMovement(ctx, actor, m.ID, nil, movement.ModeFull, "")
	require.NoError(t, err)

	require.Len(t, f.notifier.events, 2, "crear + confirmar")
	assert.Equal(t, entity.StatusPending, f.notifier.events[0].Status)
	assert.Equal(t, entity.StatusCompleted, f.notifier.events[1].Status)
	assert.Equal(t, m.ID, f.notifier.events[1].MovementID)
}

// Si la transacción falla no se emite evento.
func TestNotifier_SinEventoEnFallo(t *testing.T) {
	f := newFixture(t, allowAllCaps{})
	f.store.seedStock("p1", locA, 2)
	m := f.createTransfer(t)
	before := len(f.notifier.events)

	_, err := f.uc.ConfirmMovement(context.Background(), actor, m.ID, nil, movement.ModeFull, "")
	require.Error(t, err)
	assert.Len(t, f.notifier.events, before)
}

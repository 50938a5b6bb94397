package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/movement"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// maxTxRetries reintentos ante conflicto de transacción antes de rendirse.
const maxTxRetries = 3

// UseCase orquesta el ciclo de vida de un movimiento: creación (PENDING),
// confirmación total o parcial (reconciliación + aplicación atómica de stock),
// cancelación y borrado privilegiado. Toda mutación de InventoryRecord pasa
// por aquí, dentro de la transacción del TxRunner.
type UseCase struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository // lecturas fuera de transacción
	locationRepo repository.LocationRepository
	caps         Capabilities
	notifier     Notifier
	policy       movement.OutcomePolicy
}

// NewUseCase construye el caso de uso. policy nil usa AnyShortIsPartial.
func NewUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	locationRepo repository.LocationRepository,
	caps Capabilities,
	notifier Notifier,
	policy movement.OutcomePolicy,
) *UseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if policy == nil {
		policy = movement.AnyShortIsPartial
	}
	return &UseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		caps:         caps,
		notifier:     notifier,
		policy:       policy,
	}
}

// CreateLineInput una línea (producto, cantidad) al crear un movimiento.
type CreateLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Notes     string
}

// CreateMovementInput entrada para CreateMovement. Según Kind aplica
// DestinationID (TRANSFER), Beneficiary (SALE) o Cause (WRITE_OFF).
type CreateMovementInput struct {
	Kind          string
	OriginID      string
	DestinationID string
	Beneficiary   string
	Cause         string
	Lines         []CreateLineInput
	Notes         string
}

// CreateMovement valida la entrada, persiste cabecera y líneas en una sola
// escritura atómica y deja el movimiento en PENDING. No toca stock.
func (uc *UseCase) CreateMovement(ctx context.Context, actor Actor, in CreateMovementInput) (*entity.Movement, error) {
	kind, err := movement.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	origin, err := uc.locationRepo.GetByID(ctx, in.OriginID)
	if err != nil {
		return nil, err
	}
	if origin == nil || origin.CompanyID != actor.CompanyID {
		return nil, domain.ErrUnknownLocation
	}

	m := &entity.Movement{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Kind:      kind,
		OriginID:  in.OriginID,
		Status:    entity.StatusPending,
		CreatedBy: actor.UserID,
		CreatedAt: time.Now(),
		Notes:     in.Notes,
		Lines:     lines,
	}

	switch kind {
	case entity.KindTransfer:
		if in.DestinationID == in.OriginID {
			return nil, domain.ErrSameOriginDestination
		}
		dest, err := uc.locationRepo.GetByID(ctx, in.DestinationID)
		if err != nil {
			return nil, err
		}
		if dest == nil || dest.CompanyID != actor.CompanyID {
			return nil, domain.ErrUnknownLocation
		}
		m.DestinationID = in.DestinationID
	case entity.KindSale:
		if strings.TrimSpace(in.Beneficiary) == "" {
			return nil, domain.ErrInvalidInput
		}
		m.Beneficiary = in.Beneficiary
	case entity.KindWriteOff:
		if strings.TrimSpace(in.Cause) == "" {
			return nil, domain.ErrInvalidInput
		}
		m.Cause = in.Cause
	}

	for _, l := range m.Lines {
		l.MovementID = m.ID
	}

	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.InventoryRecordRepository) error {
		return movRepo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.MovementChanged(ChangeEvent{
		MovementID: m.ID,
		CompanyID:  m.CompanyID,
		Kind:       m.Kind,
		Status:     m.Status,
		OccurredAt: time.Now(),
	})
	return m, nil
}

// buildLines valida cantidades y deduplica por producto sumando cantidades.
func (uc *UseCase) buildLines(in []CreateLineInput) ([]*entity.MovementLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyLines
	}
	byProduct := make(map[string]*entity.MovementLine, len(in))
	var lines []*entity.MovementLine
	for _, li := range in {
		if li.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !li.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		if existing, ok := byProduct[li.ProductID]; ok {
			existing.Dispatched = existing.Dispatched.Add(li.Quantity)
			continue
		}
		l := &entity.MovementLine{
			ID:         uuid.New().String(),
			ProductID:  li.ProductID,
			Dispatched: li.Quantity,
			Notes:      li.Notes,
		}
		byProduct[li.ProductID] = l
		lines = append(lines, l)
	}
	return lines, nil
}

// ConfirmMovement aplica la confirmación (total o parcial) de un movimiento
// PENDING: reconcilia lo recibido contra lo despachado, aplica los deltas de
// stock y confirma el estado terminal, todo en una sola transacción con
// compare-and-set sobre el estado. Reintenta ante conflicto, acotado.
//
// receipts va indexado por ProductID; las líneas omitidas se interpretan según
// mode (ModeFull = recibido igual a despachado, ModePartial = cero).
func (uc *UseCase) ConfirmMovement(ctx context.Context, actor Actor, movementID string, receipts map[string]decimal.Decimal, mode movement.Mode, notes string) (*entity.Movement, error) {
	m, err := uc.loadForActor(ctx, actor, movementID)
	if err != nil {
		return nil, err
	}
	if !uc.caps.CanConfirm(actor, m) {
		return nil, domain.ErrForbidden
	}

	var confirmed *entity.Movement
	err = uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, recordRepo repository.InventoryRecordRepository) error {
		// Releer con bloqueo: otra confirmación/cancelación concurrente
		// queda serializada aquí.
		cur, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if cur.Status != entity.StatusPending {
			return domain.ErrAlreadyConfirmed
		}

		rec, err := movement.Reconcile(cur, receipts, mode, uc.policy)
		if err != nil {
			return err
		}
		newStatus, err := movement.Transition(cur.Status, rec.Outcome)
		if err != nil {
			return err
		}

		if err := uc.applyStock(ctx, recordRepo, cur, rec); err != nil {
			return err
		}

		now := time.Now()
		cur.Status = newStatus
		cur.ConfirmedBy = &actor.UserID
		cur.ConfirmedAt = &now
		cur.ConfirmNotes = notes
		for _, rl := range rec.Lines {
			received := rl.Received
			cur.LineByProduct(rl.ProductID).Received = &received
		}
		if err := movRepo.UpdateConfirmation(ctx, cur); err != nil {
			return err
		}
		confirmed = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.MovementChanged(ChangeEvent{
		MovementID: confirmed.ID,
		CompanyID:  confirmed.CompanyID,
		Kind:       confirmed.Kind,
		Status:     confirmed.Status,
		OccurredAt: time.Now(),
	})
	return confirmed, nil
}

// applyStock aplica los deltas de stock de una reconciliación:
//   - TRANSFER: resta lo despachado en origen y suma lo recibido en destino
//     (crea la fila destino si no existe, sembrada en lo recibido).
//   - SALE / WRITE_OFF: solo resta lo despachado en origen.
//
// Cada fila tocada se bloquea (FOR UPDATE) antes de escribir, y la escritura
// es siempre un incremento atómico sobre el valor vigente, nunca un absoluto
// calculado de una lectura previa. Si alguna resta dejara el stock negativo,
// toda la transacción se rechaza con ErrInsufficientStock.
func (uc *UseCase) applyStock(ctx context.Context, recordRepo repository.InventoryRecordRepository, m *entity.Movement, rec *movement.Reconciliation) error {
	for _, rl := range rec.Lines {
		dispatched := m.LineByProduct(rl.ProductID).Dispatched

		origin, err := recordRepo.GetForUpdate(ctx, rl.ProductID, m.OriginID)
		if err != nil {
			return err
		}
		if origin.Quantity.LessThan(dispatched) {
			return domain.ErrInsufficientStock
		}
		if err := recordRepo.Add(ctx, rl.ProductID, m.OriginID, dispatched.Neg()); err != nil {
			return err
		}

		if m.Kind != entity.KindTransfer || !rl.Received.IsPositive() {
			continue
		}
		if _, err := recordRepo.GetForUpdate(ctx, rl.ProductID, m.DestinationID); err != nil {
			return err
		}
		if err := recordRepo.Add(ctx, rl.ProductID, m.DestinationID, rl.Received); err != nil {
			return err
		}
	}
	return nil
}

// CancelMovement lleva un movimiento PENDING a CANCELLED con su motivo.
// Nunca toca InventoryRecord; los campos de confirmación quedan en nil.
func (uc *UseCase) CancelMovement(ctx context.Context, actor Actor, movementID, reason string) (*entity.Movement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrMissingReason
	}
	m, err := uc.loadForActor(ctx, actor, movementID)
	if err != nil {
		return nil, err
	}
	if !uc.caps.CanCancel(actor, m) {
		return nil, domain.ErrForbidden
	}

	var cancelled *entity.Movement
	err = uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, _ repository.InventoryRecordRepository) error {
		cur, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		newStatus, err := movement.Transition(cur.Status, entity.StatusCancelled)
		if err != nil {
			return err
		}
		cur.Status = newStatus
		cur.CancelReason = &reason
		if err := movRepo.UpdateCancellation(ctx, cur); err != nil {
			return err
		}
		cancelled = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.MovementChanged(ChangeEvent{
		MovementID: cancelled.ID,
		CompanyID:  cancelled.CompanyID,
		Kind:       cancelled.Kind,
		Status:     cancelled.Status,
		OccurredAt: time.Now(),
	})
	return cancelled, nil
}

// DeleteMovement borra cabecera y líneas de forma atómica. Operación
// privilegiada; un movimiento COMPLETED nunca se borra.
func (uc *UseCase) DeleteMovement(ctx context.Context, actor Actor, movementID string) error {
	if !uc.caps.CanDeletePermanently(actor) {
		return domain.ErrForbidden
	}
	if _, err := uc.loadForActor(ctx, actor, movementID); err != nil {
		return err
	}

	var deleted *entity.Movement
	err := uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, _ repository.InventoryRecordRepository) error {
		cur, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if cur.Status == entity.StatusCompleted {
			return domain.ErrInvalidState
		}
		if err := movRepo.Delete(ctx, movementID); err != nil {
			return err
		}
		deleted = cur
		return nil
	})
	if err != nil {
		return err
	}

	// El evento lleva el estado releído bajo bloqueo, no el de la lectura previa.
	uc.notifier.MovementChanged(ChangeEvent{
		MovementID: deleted.ID,
		CompanyID:  deleted.CompanyID,
		Kind:       deleted.Kind,
		Status:     deleted.Status,
		Deleted:    true,
		OccurredAt: time.Now(),
	})
	return nil
}

// ListMovements lista el libro con filtros, siempre acotado a la empresa del actor.
func (uc *UseCase) ListMovements(ctx context.Context, actor Actor, f repository.MovementFilter) ([]*entity.Movement, error) {
	f.CompanyID = actor.CompanyID
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.movementRepo.List(ctx, f)
}

// GetMovement devuelve un movimiento de la empresa del actor.
func (uc *UseCase) GetMovement(ctx context.Context, actor Actor, movementID string) (*entity.Movement, error) {
	return uc.loadForActor(ctx, actor, movementID)
}

// loadForActor lee el movimiento y aplica el cerco multi-empresa: un
// movimiento de otra empresa es indistinguible de uno inexistente.
func (uc *UseCase) loadForActor(ctx context.Context, actor Actor, movementID string) (*entity.Movement, error) {
	m, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// runWithRetry ejecuta la transacción y reintenta desde la lectura ante
// conflicto (otra transacción tocó el mismo movimiento o fila de stock),
// acotado por maxTxRetries.
func (uc *UseCase) runWithRetry(ctx context.Context, fn func(repository.MovementRepository, repository.InventoryRecordRepository) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

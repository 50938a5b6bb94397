package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los conflictos de serialización y deadlocks se traducen a
// domain.ErrConcurrentModification para que el caso de uso reintente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	recordRepo := NewInventoryRecordRepository(tx)

	if err := fn(movRepo, recordRepo); err != nil {
		if isTxConflict(err) {
			return fmt.Errorf("transacción en conflicto: %w", domain.ErrConcurrentModification)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isTxConflict(err) {
			return fmt.Errorf("commit en conflicto: %w", domain.ErrConcurrentModification)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

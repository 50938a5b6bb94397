package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo stock por (producto, ubicación) sobre PostgreSQL
// (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// GetForUpdate obtiene el stock bloqueando la fila (SELECT FOR UPDATE) para
// que dos movimientos que tocan el mismo registro se serialicen. Si la fila
// no existe devuelve una en cero (creación perezosa: nace con el primer Add).
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM inventory_records WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&rec.ProductID, &rec.LocationID, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Add suma delta a la cantidad (por producto y ubicación) en una sola
// sentencia. El UPDATE incrementa sobre el valor vigente de la fila, no sobre
// uno leído antes, así dos confirmaciones concurrentes hacia el mismo registro
// nunca se pisan un abono.
func (r *InventoryRecordRepo) Add(ctx context.Context, productID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO inventory_records (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, locationID, delta); err != nil {
		return fmt.Errorf("add inventory record: %w", err)
	}
	return nil
}

// ListByLocation lista el stock de una ubicación, paginado.
func (r *InventoryRecordRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM inventory_records WHERE location_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.LocationID, &rec.Quantity, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

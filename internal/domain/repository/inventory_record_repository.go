package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// InventoryRecordRepository define el puerto para el stock por (producto,
// ubicación). La única escritura en caliente es Add dentro de la transacción
// de confirmación; ningún otro componente muta estas filas.
type InventoryRecordRepository interface {
	// GetForUpdate devuelve la fila bloqueándola (SELECT FOR UPDATE) para que
	// dos movimientos que tocan el mismo registro se serialicen; si la fila no
	// existe devuelve una en cero (creación perezosa).
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)

	// Add suma delta a la cantidad vigente de forma atómica (delta negativo
	// resta); la fila nace con el primer Add. El incremento se resuelve en la
	// base sobre el valor actual, nunca como escritura absoluta de un valor
	// leído antes.
	Add(ctx context.Context, productID, locationID string, delta decimal.Decimal) error

	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)
}

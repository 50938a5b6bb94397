package repository

import (
	"context"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// StatusCount una cubeta (estado, cantidad) del agregado de movimientos.
type StatusCount struct {
	Status entity.Status
	Count  int64
}

// StatsRepository consultas de solo lectura sobre el libro de movimientos
// para tableros. No muta nada; se recalcula bajo demanda.
type StatsRepository interface {
	// CountOutgoingByStatus cuenta movimientos cuyo origen está en allowed
	// (vacío = sin restricción), agrupados por estado.
	CountOutgoingByStatus(ctx context.Context, companyID string, allowed []string) ([]StatusCount, error)

	// CountIncomingByStatus cuenta solo TRANSFER cuyo destino está en allowed
	// (vacío = sin restricción), agrupados por estado. SALE/WRITE_OFF no
	// tienen lado entrante por construcción.
	CountIncomingByStatus(ctx context.Context, companyID string, allowed []string) ([]StatusCount, error)
}

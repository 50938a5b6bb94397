package stats

import (
	"context"
	"fmt"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// UseCase agrega conteos de movimientos por dirección y estado para tableros.
// Consumidor de solo lectura del libro; se recalcula bajo demanda.
type UseCase struct {
	statsRepo repository.StatsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(statsRepo repository.StatsRepository) *UseCase {
	return &UseCase{statsRepo: statsRepo}
}

// GetStats calcula, sobre todo el libro de la empresa:
//   - Salientes: movimientos cuyo origen está en allowed, por estado.
//   - Entrantes: solo TRANSFER cuyo destino está en allowed, por estado
//     (SALE/WRITE_OFF no tienen lado entrante).
//
// allowed vacío = sin restricción de ubicaciones para el actor.
func (uc *UseCase) GetStats(ctx context.Context, companyID string, allowed []string) (*dto.MovementStatsDTO, error) {
	// Las dos consultas son independientes; se lanzan en paralelo.
	type result struct {
		rows []repository.StatusCount
		err  error
	}
	outCh := make(chan result, 1)
	inCh := make(chan result, 1)

	go func() {
		rows, err := uc.statsRepo.CountOutgoingByStatus(ctx, companyID, allowed)
		outCh <- result{rows, err}
	}()
	go func() {
		rows, err := uc.statsRepo.CountIncomingByStatus(ctx, companyID, allowed)
		inCh <- result{rows, err}
	}()

	outRes := <-outCh
	inRes := <-inCh
	if outRes.err != nil {
		return nil, fmt.Errorf("stats: salientes: %w", outRes.err)
	}
	if inRes.err != nil {
		return nil, fmt.Errorf("stats: entrantes: %w", inRes.err)
	}

	return &dto.MovementStatsDTO{
		Outgoing: toBuckets(outRes.rows),
		Incoming: toBuckets(inRes.rows),
	}, nil
}

// toBuckets materializa las cubetas con los cuatro estados siempre presentes,
// en cero si no hay filas, más el total.
func toBuckets(rows []repository.StatusCount) dto.DirectionBucketsDTO {
	b := dto.DirectionBucketsDTO{
		ByStatus: map[string]int64{
			string(entity.StatusPending):   0,
			string(entity.StatusPartial):   0,
			string(entity.StatusCompleted): 0,
			string(entity.StatusCancelled): 0,
		},
	}
	for _, r := range rows {
		b.ByStatus[string(r.Status)] = r.Count
		b.Total += r.Count
	}
	return b
}

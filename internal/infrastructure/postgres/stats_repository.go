package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agregados de solo lectura sobre el libro de movimientos.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountOutgoingByStatus cuenta movimientos por estado cuyo origen está en
// allowed (vacío = sin restricción).
func (r *StatsRepo) CountOutgoingByStatus(ctx context.Context, companyID string, allowed []string) ([]repository.StatusCount, error) {
	query := `SELECT status, COUNT(*) FROM movements WHERE company_id = $1`
	args := []any{companyID}
	if len(allowed) > 0 {
		query += " AND origin_id = ANY($2)"
		args = append(args, allowed)
	}
	query += " GROUP BY status"
	return r.countByStatus(ctx, query, args)
}

// CountIncomingByStatus cuenta solo TRANSFER por estado cuyo destino está en
// allowed (vacío = sin restricción). SALE/WRITE_OFF no tienen lado entrante.
func (r *StatsRepo) CountIncomingByStatus(ctx context.Context, companyID string, allowed []string) ([]repository.StatusCount, error) {
	query := `SELECT status, COUNT(*) FROM movements WHERE company_id = $1 AND kind = $2`
	args := []any{companyID, entity.KindTransfer}
	if len(allowed) > 0 {
		query += " AND destination_id = ANY($3)"
		args = append(args, allowed)
	}
	query += " GROUP BY status"
	return r.countByStatus(ctx, query, args)
}

func (r *StatsRepo) countByStatus(ctx context.Context, query string, args []any) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	var out []repository.StatusCount
	for rows.Next() {
		var sc repository.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

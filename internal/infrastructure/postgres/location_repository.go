package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (id, company_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.CompanyID, location.Name, location.Address,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update actualiza una ubicación existente.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, address = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.Name, location.Address, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByCompany lista ubicaciones por empresa con paginación.
func (r *LocationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM locations WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina una ubicación por ID.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Delete(ctx context.Context, id string) error
}

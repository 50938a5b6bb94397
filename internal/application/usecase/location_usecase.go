package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones (bodegas, tiendas).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una nueva ubicación para la empresa.
func (uc *LocationUseCase) Create(ctx context.Context, companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones por empresa con paginación.
func (uc *LocationUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

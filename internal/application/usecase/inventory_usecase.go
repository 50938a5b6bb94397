package usecase

import (
	"context"

	"github.com/jhoicas/movimientos-api/internal/application/dto"
	"github.com/jhoicas/movimientos-api/internal/domain"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

// InventoryUseCase lecturas de stock por ubicación para tableros y listados.
// Solo lectura: las filas las muta exclusivamente la confirmación de movimientos.
type InventoryUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	locationRepo repository.LocationRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(recordRepo repository.InventoryRecordRepository, locationRepo repository.LocationRepository) *InventoryUseCase {
	return &InventoryUseCase{recordRepo: recordRepo, locationRepo: locationRepo}
}

// ListByLocation lista el stock de una ubicación de la empresa.
func (uc *InventoryUseCase) ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]dto.InventoryRecordResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != companyID {
		return nil, domain.ErrUnknownLocation
	}
	list, err := uc.recordRepo.ListByLocation(ctx, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.InventoryRecordResponse{
			ProductID:  r.ProductID,
			LocationID: r.LocationID,
			Quantity:   r.Quantity,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return items, nil
}

package entity

import "time"

// Product representa un producto o SKU del catálogo (por empresa).
// El stock por ubicación vive en InventoryRecord, no aquí.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

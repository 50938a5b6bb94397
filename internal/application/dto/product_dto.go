package dto

import "time"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required,min=1,max=64"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnitMeasure string    `json:"unit_measure,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

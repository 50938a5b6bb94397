package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address,omitempty"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

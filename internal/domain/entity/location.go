package entity

import "time"

// Location representa una bodega, tienda o punto de almacenamiento de una empresa.
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa el stock actual de un producto en una ubicación.
// Clave compuesta (ProductID, LocationID); se crea de forma perezosa la primera
// vez que un producto recibe stock en esa ubicación. Nunca queda negativo.
type InventoryRecord struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

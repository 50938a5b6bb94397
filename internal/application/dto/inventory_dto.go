package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecordResponse stock actual de un producto en una ubicación.
type InventoryRecordResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

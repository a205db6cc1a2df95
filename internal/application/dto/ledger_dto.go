package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementResponse asiento del libro de inventario para la capa externa.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}

package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// RefundRepository persistencia del agregado devolución.
type RefundRepository interface {
	Create(refund *entity.Refund) error
	CreateItem(item *entity.RefundItem) error
	GetByID(id string) (*entity.Refund, error)
	GetItemsByRefundID(refundID string) ([]*entity.RefundItem, error)
	// RefundedQuantities cantidades ya devueltas por producto contra una venta,
	// sumando todas las devoluciones previas. Base del control acumulado.
	RefundedQuantities(originalSaleID string) (map[string]decimal.Decimal, error)
}

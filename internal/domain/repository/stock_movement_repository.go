package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// StockMovementRepository libro de inventario, solo-append. No hay Update ni
// Delete a propósito: los asientos son inmutables.
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	ListByProduct(businessID, productID string, limit int) ([]*entity.StockMovement, error)
	// SumByProduct suma de cantidades firmadas desde el origen; replay del
	// libro para reconciliar contra el stock vivo del catálogo.
	SumByProduct(businessID, productID string) (decimal.Decimal, error)
}

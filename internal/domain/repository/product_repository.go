package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// ProductRepository acceso al catálogo. El CRUD vive fuera del core; aquí solo
// lectura y la mutación de stock que acompaña cada asiento del libro.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetBySKU(businessID, sku string) (*entity.Product, error)
	GetByBarcode(businessID, barcode string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para el
	// check-then-write de stock dentro de la transacción del caller.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, newStock decimal.Decimal) error
}

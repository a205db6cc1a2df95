package repository

import "github.com/jhoicas/pos-core-api/internal/domain/entity"

// SaleRepository persistencia del agregado venta. Las líneas viven y mueren
// con su cabecera: se persisten como una unidad, nunca se alcanzan sueltas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetByTransactionNumber(businessID, transactionNumber string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	UpdateStatus(id, status string) error
}

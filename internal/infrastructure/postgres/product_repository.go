package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo acceso al catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, business_id, product_name, sku, barcode, selling_price, cost_price,
	       tax_percentage, taxable, active, current_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.ProductName, &p.SKU, &p.Barcode,
		&p.SellingPrice, &p.CostPrice, &p.TaxPercentage, &p.Taxable,
		&p.Active, &p.CurrentStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted = false`
	return scanProduct(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un producto por SKU dentro del negocio.
func (r *ProductRepo) GetBySKU(businessID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 AND sku = $2 AND deleted = false`
	return scanProduct(r.q.QueryRow(context.Background(), query, businessID, sku))
}

// GetByBarcode obtiene un producto por código de barras dentro del negocio.
func (r *ProductRepo) GetByBarcode(businessID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 AND barcode = $2 AND deleted = false`
	return scanProduct(r.q.QueryRow(context.Background(), query, businessID, barcode))
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE) para
// el check-then-write de stock. Usar solo dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted = false FOR UPDATE`
	return scanProduct(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStock actualiza el stock vivo del producto. Siempre va acompañado de
// un asiento del libro en la misma transacción.
func (r *ProductRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	query := `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, newStock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

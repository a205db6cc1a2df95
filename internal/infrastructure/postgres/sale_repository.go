package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persistencia del agregado venta sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, business_id, transaction_number, employee_id, customer_id, sale_date,
		                   subtotal, tax_amount, discount_amount, loyalty_points_redeemed, loyalty_discount,
		                   total_amount, amount_paid, change_amount, payment_method, status,
		                   loyalty_points_earned, locked, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.BusinessID, sale.TransactionNumber, sale.EmployeeID, nullIfEmpty(sale.CustomerID),
		sale.SaleDate, sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.LoyaltyPointsRedeemed,
		sale.LoyaltyDiscount, sale.TotalAmount, sale.AmountPaid, sale.ChangeAmount, sale.PaymentMethod,
		sale.Status, sale.LoyaltyPointsEarned, sale.Locked, nullIfEmpty(sale.Notes),
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction number already exists: %w", err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, sku, quantity, unit_price,
		                        cost_price, discount_amount, tax_amount, tax_percentage, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.ProductName, item.SKU, item.Quantity,
		item.UnitPrice, item.CostPrice, item.DiscountAmount, item.TaxAmount,
		item.TaxPercentage, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

const saleColumns = `id, business_id, transaction_number, employee_id, customer_id, sale_date,
	       subtotal, tax_amount, discount_amount, loyalty_points_redeemed, loyalty_discount,
	       total_amount, amount_paid, change_amount, payment_method, status,
	       loyalty_points_earned, locked, notes, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, notes *string
	err := row.Scan(
		&s.ID, &s.BusinessID, &s.TransactionNumber, &s.EmployeeID, &customerID, &s.SaleDate,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.LoyaltyPointsRedeemed, &s.LoyaltyDiscount,
		&s.TotalAmount, &s.AmountPaid, &s.ChangeAmount, &s.PaymentMethod, &s.Status,
		&s.LoyaltyPointsEarned, &s.Locked, &notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	s.CustomerID = derefStr(customerID)
	s.Notes = derefStr(notes)
	return &s, nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// GetByTransactionNumber obtiene la venta por su número dentro del negocio.
func (r *SaleRepo) GetByTransactionNumber(businessID, transactionNumber string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE business_id = $1 AND transaction_number = $2`
	return scanSale(r.q.QueryRow(context.Background(), query, businessID, transactionNumber))
}

// GetItemsBySaleID obtiene las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, sku, quantity, unit_price,
		       cost_price, discount_amount, tax_amount, tax_percentage, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.CostPrice, &it.DiscountAmount,
			&it.TaxAmount, &it.TaxPercentage, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la venta (única mutación permitida después
// de COMPLETED; la cabecera queda bloqueada).
func (r *SaleRepo) UpdateStatus(id, status string) error {
	query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

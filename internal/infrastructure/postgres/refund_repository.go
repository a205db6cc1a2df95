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

var _ repository.RefundRepository = (*RefundRepo)(nil)

// RefundRepo persistencia del agregado devolución sobre PostgreSQL.
type RefundRepo struct {
	q Querier
}

// NewRefundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRefundRepository(q Querier) *RefundRepo {
	return &RefundRepo{q: q}
}

// Create persiste la cabecera de la devolución.
func (r *RefundRepo) Create(refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, business_id, refund_number, original_sale_id, original_transaction_number,
		                     refund_date, refund_amount, reason, refund_type, processed_by_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		refund.ID, refund.BusinessID, refund.RefundNumber, refund.OriginalSaleID,
		refund.OriginalTransactionNumber, refund.RefundDate, refund.RefundAmount,
		refund.Reason, refund.RefundType, refund.ProcessedByID, nullIfEmpty(refund.Notes),
		refund.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("refund number already exists: %w", err)
		}
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// CreateItem persiste una línea devuelta.
func (r *RefundRepo) CreateItem(item *entity.RefundItem) error {
	query := `
		INSERT INTO refund_items (id, refund_id, product_id, product_name, quantity, unit_price, refund_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.RefundID, item.ProductID, item.ProductName,
		item.Quantity, item.UnitPrice, item.RefundAmount,
	)
	if err != nil {
		return fmt.Errorf("insert refund item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una devolución.
func (r *RefundRepo) GetByID(id string) (*entity.Refund, error) {
	query := `
		SELECT id, business_id, refund_number, original_sale_id, original_transaction_number,
		       refund_date, refund_amount, reason, refund_type, processed_by_id, notes, created_at
		FROM refunds WHERE id = $1`
	var rf entity.Refund
	var notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rf.ID, &rf.BusinessID, &rf.RefundNumber, &rf.OriginalSaleID, &rf.OriginalTransactionNumber,
		&rf.RefundDate, &rf.RefundAmount, &rf.Reason, &rf.RefundType, &rf.ProcessedByID,
		&notes, &rf.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refund: %w", err)
	}
	rf.Notes = derefStr(notes)
	return &rf, nil
}

// GetItemsByRefundID obtiene las líneas de una devolución.
func (r *RefundRepo) GetItemsByRefundID(refundID string) ([]*entity.RefundItem, error) {
	query := `
		SELECT id, refund_id, product_id, product_name, quantity, unit_price, refund_amount
		FROM refund_items WHERE refund_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, refundID)
	if err != nil {
		return nil, fmt.Errorf("list refund items: %w", err)
	}
	defer rows.Close()
	var list []*entity.RefundItem
	for rows.Next() {
		var it entity.RefundItem
		if err := rows.Scan(&it.ID, &it.RefundID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.RefundAmount); err != nil {
			return nil, fmt.Errorf("scan refund item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// RefundedQuantities suma por producto las cantidades ya devueltas contra una
// venta, a través de todas sus devoluciones previas.
func (r *RefundRepo) RefundedQuantities(originalSaleID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT ri.product_id, COALESCE(SUM(ri.quantity), 0)
		FROM refund_items ri
		JOIN refunds rf ON rf.id = ri.refund_id
		WHERE rf.original_sale_id = $1
		GROUP BY ri.product_id`
	rows, err := r.q.Query(context.Background(), query, originalSaleID)
	if err != nil {
		return nil, fmt.Errorf("sum refunded quantities: %w", err)
	}
	defer rows.Close()
	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan refunded quantity: %w", err)
		}
		result[productID] = qty
	}
	return result, rows.Err()
}

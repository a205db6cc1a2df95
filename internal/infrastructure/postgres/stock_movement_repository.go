package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de inventario sobre PostgreSQL. Solo INSERT y
// SELECT: los asientos nunca se actualizan ni se borran.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create asienta un movimiento.
func (r *StockMovementRepo) Create(mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, business_id, product_id, movement_type, quantity,
		                             stock_before, stock_after, reference_id, reference_type,
		                             notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.BusinessID, mov.ProductID, mov.MovementType, mov.Quantity,
		mov.StockBefore, mov.StockAfter, nullIfEmpty(mov.ReferenceID), nullIfEmpty(mov.ReferenceType),
		nullIfEmpty(mov.Notes), mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct últimos movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(businessID, productID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, business_id, product_id, movement_type, quantity, stock_before, stock_after,
		       COALESCE(reference_id, ''), COALESCE(reference_type, ''), COALESCE(notes, ''),
		       created_at, created_by
		FROM stock_movements
		WHERE business_id = $1 AND product_id = $2
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, businessID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.MovementType, &m.Quantity,
			&m.StockBefore, &m.StockAfter, &m.ReferenceID, &m.ReferenceType, &m.Notes,
			&m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct replay del libro: suma de cantidades firmadas desde el origen.
func (r *StockMovementRepo) SumByProduct(businessID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE business_id = $1 AND product_id = $2`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, businessID, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return total, nil
}

package stockledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

// Ledger libro de inventario: cada cambio de stock queda como asiento
// inmutable y el stock vivo del producto se actualiza en la misma transacción.
type Ledger struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewLedger construye el libro con repos atados al pool (solo para consultas;
// las escrituras van por ApplyInTx con los repos del caller).
func NewLedger(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *Ledger {
	return &Ledger{movRepo: movRepo, productRepo: productRepo}
}

// ApplyInput datos de un movimiento a asentar.
type ApplyInput struct {
	BusinessID    string
	UserID        string
	MovementType  string
	Quantity      decimal.Decimal // firmada: negativa para salidas
	ReferenceID   string
	ReferenceType string
	Notes         string
}

// ApplyInTx asienta un movimiento usando los repositorios del caller (misma
// transacción): lee el stock actual del producto ya bloqueado, calcula
// stockAfter, rechaza resultados negativos y escribe el stock del producto y
// el asiento como una unidad. El puntero product se actualiza en memoria para
// que el caller siga operando sobre el stock nuevo.
func (l *Ledger) ApplyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	in ApplyInput,
	now time.Time,
) (*entity.StockMovement, error) {
	if !entity.ValidMovementType(in.MovementType) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	stockBefore := product.CurrentStock
	stockAfter := stockBefore.Add(in.Quantity)
	if stockAfter.LessThan(decimal.Zero) {
		// Un asiento jamás puede dejar el stock en negativo.
		return nil, domain.NewBusinessRuleError(domain.CodeInvalidMovement,
			fmt.Sprintf("el movimiento dejaría el stock de '%s' en %s", product.ProductName, stockAfter.String()))
	}

	if err := productRepo.UpdateStock(product.ID, stockAfter); err != nil {
		return nil, err
	}
	product.CurrentStock = stockAfter

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		BusinessID:    in.BusinessID,
		ProductID:     product.ID,
		MovementType:  in.MovementType,
		Quantity:      in.Quantity,
		StockBefore:   stockBefore,
		StockAfter:    stockAfter,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Movements historial de asientos de un producto, más recientes primero.
func (l *Ledger) Movements(ctx context.Context, businessID, productID string, limit int) ([]*entity.StockMovement, error) {
	_ = ctx
	product, err := l.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return l.movRepo.ListByProduct(businessID, productID, limit)
}

// ReconcileResult resultado del replay del libro contra el stock vivo.
type ReconcileResult struct {
	ProductID    string          `json:"product_id"`
	LedgerTotal  decimal.Decimal `json:"ledger_total"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Consistent   bool            `json:"consistent"`
}

// Reconcile suma las cantidades firmadas del libro desde el origen y las
// compara con el stock cacheado del catálogo. Consulta de auditoría, solo
// lectura.
func (l *Ledger) Reconcile(ctx context.Context, businessID, productID string) (*ReconcileResult, error) {
	_ = ctx
	product, err := l.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	total, err := l.movRepo.SumByProduct(businessID, productID)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{
		ProductID:    productID,
		LedgerTotal:  total,
		CurrentStock: product.CurrentStock,
		Consistent:   total.Equal(product.CurrentStock),
	}, nil
}

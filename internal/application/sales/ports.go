package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products    repository.ProductRepository
	Movements   repository.StockMovementRepository
	Sales       repository.SaleRepository
	Refunds     repository.RefundRepository
	Customers   repository.CustomerRepository
	LoyaltyTxns repository.LoyaltyTransactionRepository
	Sequences   repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil,
// Rollback si retorna error. Garantiza el todo-o-nada de venta y devolución.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(r TxRepos) error) error
}

// StockLedger integración con el libro de inventario dentro de la transacción
// del caller. Si retorna error, el caller debe hacer rollback.
type StockLedger interface {
	ApplyInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		in stockledger.ApplyInput,
		now time.Time,
	) (*entity.StockMovement, error)
}

// LoyaltyLedger integración con el libro de puntos.
type LoyaltyLedger interface {
	CalculatePointsEarned(ctx context.Context, businessID string, saleAmount decimal.Decimal) (decimal.Decimal, error)
	CalculateRedemptionValue(ctx context.Context, businessID string, points decimal.Decimal) (decimal.Decimal, error)
	SettleInTx(
		customerRepo repository.CustomerRepository,
		txnRepo repository.LoyaltyTransactionRepository,
		customer *entity.Customer,
		saleID string,
		pointsEarned, pointsRedeemed, saleAmount decimal.Decimal,
		now time.Time,
	) error
}

// ReceiptGenerator renderiza el recibo imprimible de una venta.
type ReceiptGenerator interface {
	Generate(sale *dto.SaleResponse) ([]byte, error)
}

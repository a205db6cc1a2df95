package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-core-api/internal/application/sales"
)

// Ensure TxRunner implements sales.TxRunner.
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSale inicia una transacción, ejecuta fn con los repos del core atados a
// esa tx y hace Commit o Rollback. Venta y devolución corren por aquí:
// cualquier error de fn revierte movimientos de stock, asientos de puntos y
// agregados a medio escribir.
func (r *TxRunner) RunSale(ctx context.Context, fn func(repos sales.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := sales.TxRepos{
		Products:    NewProductRepository(tx),
		Movements:   NewStockMovementRepository(tx),
		Sales:       NewSaleRepository(tx),
		Refunds:     NewRefundRepository(tx),
		Customers:   NewCustomerRepository(tx),
		LoyaltyTxns: NewLoyaltyTransactionRepository(tx),
		Sequences:   NewSequenceRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

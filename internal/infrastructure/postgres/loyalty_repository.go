package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var (
	_ repository.LoyaltyConfigRepository      = (*LoyaltyConfigRepo)(nil)
	_ repository.LoyaltyTransactionRepository = (*LoyaltyTransactionRepo)(nil)
)

// LoyaltyConfigRepo configuración de fidelización por negocio.
type LoyaltyConfigRepo struct {
	q Querier
}

func NewLoyaltyConfigRepository(q Querier) *LoyaltyConfigRepo {
	return &LoyaltyConfigRepo{q: q}
}

func (r *LoyaltyConfigRepo) GetActiveByBusiness(businessID string) (*entity.LoyaltyConfig, error) {
	query := `
		SELECT id, business_id, points_per_currency_unit, currency_units_per_point,
		       minimum_purchase_for_points, minimum_points_for_redemption,
		       max_redemption_percentage, active, created_at, updated_at
		FROM loyalty_configs
		WHERE business_id = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1`
	var c entity.LoyaltyConfig
	err := r.q.QueryRow(context.Background(), query, businessID).Scan(
		&c.ID, &c.BusinessID, &c.PointsPerCurrencyUnit, &c.CurrencyUnitsPerPoint,
		&c.MinimumPurchaseForPoints, &c.MinimumPointsForRedemption,
		&c.MaxRedemptionPercentage, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan loyalty config: %w", err)
	}
	return &c, nil
}

func (r *LoyaltyConfigRepo) Create(cfg *entity.LoyaltyConfig) error {
	query := `
		INSERT INTO loyalty_configs (id, business_id, points_per_currency_unit,
		                             currency_units_per_point, minimum_purchase_for_points,
		                             minimum_points_for_redemption, max_redemption_percentage,
		                             active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		cfg.ID, cfg.BusinessID, cfg.PointsPerCurrencyUnit, cfg.CurrencyUnitsPerPoint,
		cfg.MinimumPurchaseForPoints, cfg.MinimumPointsForRedemption,
		cfg.MaxRedemptionPercentage, cfg.Active, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loyalty config: %w", err)
	}
	return nil
}

// LoyaltyTransactionRepo libro de puntos, solo-append.
type LoyaltyTransactionRepo struct {
	q Querier
}

func NewLoyaltyTransactionRepository(q Querier) *LoyaltyTransactionRepo {
	return &LoyaltyTransactionRepo{q: q}
}

func (r *LoyaltyTransactionRepo) Create(txn *entity.LoyaltyTransaction) error {
	query := `
		INSERT INTO loyalty_transactions (id, business_id, customer_id, type, points,
		                                  balance_after, sale_id, sale_amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.BusinessID, txn.CustomerID, txn.Type, txn.Points,
		txn.BalanceAfter, nullIfEmpty(txn.SaleID), txn.SaleAmount, txn.Description, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loyalty transaction: %w", err)
	}
	return nil
}

func (r *LoyaltyTransactionRepo) GetLatestByCustomer(businessID, customerID string) (*entity.LoyaltyTransaction, error) {
	query := `
		SELECT id, business_id, customer_id, type, points, balance_after,
		       COALESCE(sale_id, ''), sale_amount, description, created_at
		FROM loyalty_transactions
		WHERE business_id = $1 AND customer_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	var t entity.LoyaltyTransaction
	err := r.q.QueryRow(context.Background(), query, businessID, customerID).Scan(
		&t.ID, &t.BusinessID, &t.CustomerID, &t.Type, &t.Points, &t.BalanceAfter,
		&t.SaleID, &t.SaleAmount, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan loyalty transaction: %w", err)
	}
	return &t, nil
}

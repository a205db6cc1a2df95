package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

// Ledger libro de puntos de fidelización: cálculo de puntos ganados/redimidos,
// reglas de redención y saldo/nivel del cliente.
type Ledger struct {
	configRepo repository.LoyaltyConfigRepository
	log        zerolog.Logger
}

// NewLedger construye el libro de puntos.
func NewLedger(configRepo repository.LoyaltyConfigRepository, log zerolog.Logger) *Ledger {
	return &Ledger{configRepo: configRepo, log: log}
}

// GetOrCreateConfig devuelve la configuración activa del negocio, creándola
// con los valores por defecto si no existe.
func (l *Ledger) GetOrCreateConfig(ctx context.Context, businessID string) (*entity.LoyaltyConfig, error) {
	_ = ctx
	cfg, err := l.configRepo.GetActiveByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	cfg = entity.DefaultLoyaltyConfig(businessID)
	cfg.ID = uuid.New().String()
	if err := l.configRepo.Create(cfg); err != nil {
		return nil, err
	}
	l.log.Info().Str("business_id", businessID).Msg("configuración de fidelización creada con defaults")
	return cfg, nil
}

// CalculatePointsEarned puntos que gana una venta según la configuración del
// negocio (0 si no alcanza la compra mínima).
func (l *Ledger) CalculatePointsEarned(ctx context.Context, businessID string, saleAmount decimal.Decimal) (decimal.Decimal, error) {
	cfg, err := l.GetOrCreateConfig(ctx, businessID)
	if err != nil {
		return decimal.Zero, err
	}
	return cfg.PointsEarned(saleAmount), nil
}

// CalculateRedemptionValue valor en moneda de redimir points. Falla si no se
// alcanza el mínimo configurado. El tope MaxRedemptionPercentage existe en la
// configuración pero hoy no se aplica aquí.
func (l *Ledger) CalculateRedemptionValue(ctx context.Context, businessID string, points decimal.Decimal) (decimal.Decimal, error) {
	cfg, err := l.GetOrCreateConfig(ctx, businessID)
	if err != nil {
		return decimal.Zero, err
	}
	if points.LessThan(cfg.MinimumPointsForRedemption) {
		return decimal.Zero, domain.NewBusinessRuleError(domain.CodeInsufficientLoyaltyPoints,
			fmt.Sprintf("se requieren mínimo %s puntos para redimir", cfg.MinimumPointsForRedemption.String()))
	}
	return cfg.RedemptionValue(points), nil
}

// SettleInTx liquida la venta en el libro de puntos usando los repositorios
// del caller (misma transacción): primero la redención (valida saldo, asienta
// REDEEMED con saldo posterior), luego la acumulación (asienta EARNED), y al
// final actualiza saldo, gasto acumulado, visitas y nivel del cliente.
// customer debe venir bloqueado (GetForUpdate) por el caller.
func (l *Ledger) SettleInTx(
	customerRepo repository.CustomerRepository,
	txnRepo repository.LoyaltyTransactionRepository,
	customer *entity.Customer,
	saleID string,
	pointsEarned, pointsRedeemed, saleAmount decimal.Decimal,
	now time.Time,
) error {
	balance := customer.LoyaltyPoints

	if pointsRedeemed.GreaterThan(decimal.Zero) {
		if balance.LessThan(pointsRedeemed) {
			return domain.NewBusinessRuleError(domain.CodeInsufficientLoyaltyPoints,
				fmt.Sprintf("el cliente tiene %s puntos e intentó redimir %s", balance.String(), pointsRedeemed.String()))
		}
		balance = balance.Sub(pointsRedeemed)
		if err := txnRepo.Create(&entity.LoyaltyTransaction{
			ID:           uuid.New().String(),
			BusinessID:   customer.BusinessID,
			CustomerID:   customer.ID,
			Type:         entity.LoyaltyTxnRedeemed,
			Points:       pointsRedeemed.Neg(),
			BalanceAfter: balance,
			SaleID:       saleID,
			SaleAmount:   saleAmount,
			Description:  "puntos redimidos en venta",
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}

	if pointsEarned.GreaterThan(decimal.Zero) {
		balance = balance.Add(pointsEarned)
		if err := txnRepo.Create(&entity.LoyaltyTransaction{
			ID:           uuid.New().String(),
			BusinessID:   customer.BusinessID,
			CustomerID:   customer.ID,
			Type:         entity.LoyaltyTxnEarned,
			Points:       pointsEarned,
			BalanceAfter: balance,
			SaleID:       saleID,
			SaleAmount:   saleAmount,
			Description:  "puntos ganados por venta",
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}

	customer.LoyaltyPoints = balance
	customer.TotalSpent = customer.TotalSpent.Add(saleAmount)
	customer.TotalVisits++
	customer.LoyaltyTier = entity.TierForSpend(customer.TotalSpent)
	customer.UpdatedAt = now
	return customerRepo.UpdateLoyalty(customer)
}

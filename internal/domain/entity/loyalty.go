package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro de puntos.
const (
	LoyaltyTxnEarned     = "EARNED"
	LoyaltyTxnRedeemed   = "REDEEMED"
	LoyaltyTxnAdjustment = "ADJUSTMENT"
	LoyaltyTxnExpired    = "EXPIRED"
)

// LoyaltyConfig configuración de fidelización del negocio (una por tenant,
// creada perezosamente con los valores por defecto si no existe una activa).
type LoyaltyConfig struct {
	ID                         string
	BusinessID                 string
	PointsPerCurrencyUnit      decimal.Decimal // 0.01 = 1 punto por cada 100 en moneda
	CurrencyUnitsPerPoint      decimal.Decimal // 1 = cada punto descuenta 1 unidad de moneda
	MinimumPurchaseForPoints   decimal.Decimal
	MinimumPointsForRedemption decimal.Decimal
	MaxRedemptionPercentage    decimal.Decimal // existe pero hoy no limita la redención
	Active                     bool
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// DefaultLoyaltyConfig valores por defecto: 1% de acumulación, redención 1:1,
// sin compra mínima, 10 puntos mínimos para redimir, tope 50% (no aplicado).
func DefaultLoyaltyConfig(businessID string) *LoyaltyConfig {
	now := time.Now()
	return &LoyaltyConfig{
		BusinessID:                 businessID,
		PointsPerCurrencyUnit:      decimal.NewFromFloat(0.01),
		CurrencyUnitsPerPoint:      decimal.NewFromInt(1),
		MinimumPurchaseForPoints:   decimal.Zero,
		MinimumPointsForRedemption: decimal.NewFromInt(10),
		MaxRedemptionPercentage:    decimal.NewFromInt(50),
		Active:                     true,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
}

// PointsEarned puntos ganados por una venta: 0 si no alcanza la compra mínima,
// si no monto × tasa, redondeo half-up a 2 decimales. Función pura: el mismo
// input produce siempre el mismo resultado.
func (c *LoyaltyConfig) PointsEarned(saleAmount decimal.Decimal) decimal.Decimal {
	if saleAmount.LessThan(c.MinimumPurchaseForPoints) {
		return decimal.Zero
	}
	return saleAmount.Mul(c.PointsPerCurrencyUnit).Round(2)
}

// RedemptionValue valor en moneda de los puntos a redimir, redondeo half-up a
// 2 decimales. No valida el mínimo ni el tope: eso lo hace el caso de uso.
func (c *LoyaltyConfig) RedemptionValue(points decimal.Decimal) decimal.Decimal {
	return points.Mul(c.CurrencyUnitsPerPoint).Round(2)
}

// LoyaltyTransaction asiento inmutable del libro de puntos de un cliente.
// BalanceAfter es el snapshot del saldo tras aplicar Points.
type LoyaltyTransaction struct {
	ID           string
	BusinessID   string
	CustomerID   string
	Type         string
	Points       decimal.Decimal // firmada: negativa en REDEEMED/EXPIRED
	BalanceAfter decimal.Decimal
	SaleID       string
	SaleAmount   decimal.Decimal
	Description  string
	CreatedAt    time.Time
}

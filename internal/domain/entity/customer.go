package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Niveles de fidelización por gasto acumulado.
const (
	TierBronze   = "BRONZE"
	TierSilver   = "SILVER"
	TierGold     = "GOLD"
	TierPlatinum = "PLATINUM"
)

// Umbrales de gasto acumulado por nivel.
var (
	tierSilverFrom   = decimal.NewFromInt(20_000)
	tierGoldFrom     = decimal.NewFromInt(50_000)
	tierPlatinumFrom = decimal.NewFromInt(100_000)
)

// TierForSpend nivel que corresponde a un gasto acumulado.
func TierForSpend(totalSpent decimal.Decimal) string {
	switch {
	case totalSpent.GreaterThanOrEqual(tierPlatinumFrom):
		return TierPlatinum
	case totalSpent.GreaterThanOrEqual(tierGoldFrom):
		return TierGold
	case totalSpent.GreaterThanOrEqual(tierSilverFrom):
		return TierSilver
	default:
		return TierBronze
	}
}

// Customer registro del cliente (colaborador externo) con los campos de
// fidelización que solo el libro de puntos puede mutar. Invariante:
// LoyaltyPoints == BalanceAfter del último LoyaltyTransaction del cliente.
type Customer struct {
	ID            string
	BusinessID    string
	FullName      string
	Phone         string
	LoyaltyPoints decimal.Decimal
	TotalSpent    decimal.Decimal
	TotalVisits   int64
	LoyaltyTier   string
	UpdatedAt     time.Time
}

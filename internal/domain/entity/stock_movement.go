package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario. Se persisten por nombre simbólico.
const (
	MovementTypePurchaseIn       = "PURCHASE_IN"
	MovementTypeSaleOut          = "SALE_OUT"
	MovementTypeRefundIn         = "REFUND_IN"
	MovementTypeAdjustmentIn     = "ADJUSTMENT_IN"
	MovementTypeAdjustmentOut    = "ADJUSTMENT_OUT"
	MovementTypeTransferIn       = "TRANSFER_IN"
	MovementTypeTransferOut      = "TRANSFER_OUT"
	MovementTypeDamageOut        = "DAMAGE_OUT"
	MovementTypeReturnToSupplier = "RETURN_TO_SUPPLIER"
)

// Tipos de referencia de un movimiento (documento que lo originó).
const (
	ReferenceTypeSale     = "SALE"
	ReferenceTypeRefund   = "REFUND"
	ReferenceTypePurchase = "PURCHASE"
)

// ValidMovementType indica si el tipo es uno de los del libro.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchaseIn, MovementTypeSaleOut, MovementTypeRefundIn,
		MovementTypeAdjustmentIn, MovementTypeAdjustmentOut,
		MovementTypeTransferIn, MovementTypeTransferOut,
		MovementTypeDamageOut, MovementTypeReturnToSupplier:
		return true
	}
	return false
}

// StockMovement asiento inmutable del libro de inventario. Nunca se actualiza
// ni se borra. Invariante: StockAfter = StockBefore + Quantity, y el stock
// vivo del producto siempre coincide con el StockAfter de su último asiento.
type StockMovement struct {
	ID            string
	BusinessID    string
	ProductID     string
	MovementType  string
	Quantity      decimal.Decimal // firmada: negativa en salidas, positiva en entradas
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	ReferenceID   string
	ReferenceType string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}

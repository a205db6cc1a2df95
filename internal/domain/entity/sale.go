package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. DRAFT nunca es observable desde fuera: CreateSale
// confirma directo a COMPLETED. REFUNDED y VOID son terminales para devoluciones.
const (
	SaleStatusDraft             = "DRAFT"
	SaleStatusCompleted         = "COMPLETED"
	SaleStatusRefunded          = "REFUNDED"
	SaleStatusPartiallyRefunded = "PARTIALLY_REFUNDED"
	SaleStatusVoid              = "VOID"
)

// Métodos de pago aceptados en caja.
const (
	PaymentMethodCash   = "CASH"
	PaymentMethodCard   = "CARD"
	PaymentMethodUPI    = "UPI"
	PaymentMethodMixed  = "MIXED"
	PaymentMethodCredit = "CREDIT"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodMixed, PaymentMethodCredit:
		return true
	}
	return false
}

// Sale venta de punto de venta (raíz del agregado venta + líneas).
// Una vez en COMPLETED la cabecera queda bloqueada (Locked); solo el estado
// cambia por devoluciones.
type Sale struct {
	ID                    string
	BusinessID            string
	TransactionNumber     string // único por negocio, legible: TXN-yyyymmdd-NNNNN
	EmployeeID            string
	CustomerID            string // vacío = venta de mostrador sin cliente
	SaleDate              time.Time
	Subtotal              decimal.Decimal
	TaxAmount             decimal.Decimal
	DiscountAmount        decimal.Decimal
	LoyaltyPointsRedeemed decimal.Decimal
	LoyaltyDiscount       decimal.Decimal
	TotalAmount           decimal.Decimal
	AmountPaid            decimal.Decimal
	ChangeAmount          decimal.Decimal
	PaymentMethod         string
	Status                string
	LoyaltyPointsEarned   decimal.Decimal
	Locked                bool
	Notes                 string
	Items                 []*SaleItem
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SaleItem línea de venta con snapshot del producto al momento de vender.
// CostPrice es para analítica de margen, no participa en los totales.
type SaleItem struct {
	ID             string
	SaleID         string
	ProductID      string
	ProductName    string
	SKU            string
	Quantity       decimal.Decimal // positiva, admite fracciones (hasta 3 decimales)
	UnitPrice      decimal.Decimal
	CostPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TaxPercentage  decimal.Decimal
	LineTotal      decimal.Decimal
}

// ComputeLine calcula los montos de una línea: taxable = precio×cantidad − descuento,
// impuesto = taxable × pct/100 (redondeo half-up a 2 decimales) si el producto grava,
// total = taxable + impuesto.
func ComputeLine(unitPrice, quantity, discount, taxPercentage decimal.Decimal, taxable bool) (lineSubtotal, taxAmount, lineTotal decimal.Decimal) {
	lineSubtotal = unitPrice.Mul(quantity)
	taxableAmount := lineSubtotal.Sub(discount)
	if taxable {
		taxAmount = taxableAmount.Mul(taxPercentage).Div(decimal.NewFromInt(100)).Round(2)
	} else {
		taxAmount = decimal.Zero
	}
	lineTotal = taxableAmount.Add(taxAmount)
	return lineSubtotal, taxAmount, lineTotal
}

// ComputeTotal total a pagar: max(0, subtotal + impuestos − descuento − descuento por puntos).
func ComputeTotal(subtotal, tax, discount, loyaltyDiscount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(tax).Sub(discount).Sub(loyaltyDiscount)
	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total
}

// CheckInvariants verifica los invariantes aritméticos de la venta completada.
// Útil en tests y en reconciliaciones; nunca debería fallar en producción.
func (s *Sale) CheckInvariants() bool {
	if !s.TotalAmount.Equal(ComputeTotal(s.Subtotal, s.TaxAmount, s.DiscountAmount, s.LoyaltyDiscount)) {
		return false
	}
	if !s.ChangeAmount.Equal(s.AmountPaid.Sub(s.TotalAmount)) || s.ChangeAmount.LessThan(decimal.Zero) {
		return false
	}
	for _, it := range s.Items {
		expected := it.UnitPrice.Mul(it.Quantity).Sub(it.DiscountAmount).Add(it.TaxAmount)
		if !it.LineTotal.Equal(expected) {
			return false
		}
	}
	return true
}

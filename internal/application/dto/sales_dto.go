package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest petición de venta POS.
type CreateSaleRequest struct {
	EmployeeID            string            `json:"employee_id"`
	CustomerID            string            `json:"customer_id,omitempty"`
	Items                 []SaleItemRequest `json:"items"`
	PaymentMethod         string            `json:"payment_method"`
	AmountPaid            decimal.Decimal   `json:"amount_paid"`
	DiscountAmount        decimal.Decimal   `json:"discount_amount"`
	LoyaltyPointsToRedeem decimal.Decimal   `json:"loyalty_points_to_redeem"`
	Notes                 string            `json:"notes,omitempty"`
}

// SaleItemRequest línea solicitada: el precio sale del catálogo, no del cliente.
type SaleItemRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// RefundRequest petición de devolución. Sin items = devolución total.
type RefundRequest struct {
	OriginalSaleID string              `json:"original_sale_id"`
	Reason         string              `json:"reason"`
	Items          []RefundItemRequest `json:"items,omitempty"`
	Notes          string              `json:"notes,omitempty"`
}

// RefundItemRequest línea a devolver (debe existir en la venta original).
type RefundItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SaleResponse venta completa para la capa externa.
type SaleResponse struct {
	ID                    string             `json:"id"`
	TransactionNumber     string             `json:"transaction_number"`
	EmployeeID            string             `json:"employee_id"`
	EmployeeName          string             `json:"employee_name,omitempty"`
	CustomerID            string             `json:"customer_id,omitempty"`
	CustomerName          string             `json:"customer_name,omitempty"`
	SaleDate              time.Time          `json:"sale_date"`
	Subtotal              decimal.Decimal    `json:"subtotal"`
	TaxAmount             decimal.Decimal    `json:"tax_amount"`
	DiscountAmount        decimal.Decimal    `json:"discount_amount"`
	LoyaltyPointsRedeemed decimal.Decimal    `json:"loyalty_points_redeemed"`
	LoyaltyDiscount       decimal.Decimal    `json:"loyalty_discount"`
	TotalAmount           decimal.Decimal    `json:"total_amount"`
	AmountPaid            decimal.Decimal    `json:"amount_paid"`
	ChangeAmount          decimal.Decimal    `json:"change_amount"`
	PaymentMethod         string             `json:"payment_method"`
	Status                string             `json:"status"`
	LoyaltyPointsEarned   decimal.Decimal    `json:"loyalty_points_earned"`
	Locked                bool               `json:"locked"`
	Notes                 string             `json:"notes,omitempty"`
	Items                 []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de venta con snapshot del producto.
type SaleItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SKU            string          `json:"sku"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// RefundResponse resultado de una devolución.
type RefundResponse struct {
	ID                        string               `json:"id"`
	RefundNumber              string               `json:"refund_number"`
	OriginalSaleID            string               `json:"original_sale_id"`
	OriginalTransactionNumber string               `json:"original_transaction_number"`
	RefundDate                time.Time            `json:"refund_date"`
	RefundAmount              decimal.Decimal      `json:"refund_amount"`
	Reason                    string               `json:"reason"`
	RefundType                string               `json:"refund_type"`
	ProcessedByID             string               `json:"processed_by_id"`
	SaleStatus                string               `json:"sale_status"`
	Notes                     string               `json:"notes,omitempty"`
	Items                     []RefundItemResponse `json:"items"`
}

// RefundItemResponse línea devuelta.
type RefundItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

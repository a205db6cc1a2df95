package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de devolución.
const (
	RefundTypeFull    = "FULL"
	RefundTypePartial = "PARTIAL"
)

// Refund devolución sobre una venta completada (total o parcial).
// Guarda snapshot del número de transacción original.
type Refund struct {
	ID                        string
	BusinessID                string
	RefundNumber              string // único por negocio: RFN-yyyymmdd-NNNNN
	OriginalSaleID            string
	OriginalTransactionNumber string
	RefundDate                time.Time
	RefundAmount              decimal.Decimal
	Reason                    string
	RefundType                string
	ProcessedByID             string
	Notes                     string
	Items                     []*RefundItem
	CreatedAt                 time.Time
}

// RefundItem línea devuelta. RefundAmount = UnitPrice × Quantity sobre el
// precio snapshot de la venta original; no se re-deriva impuesto ni descuento
// proporcional.
type RefundItem struct {
	ID           string
	RefundID     string
	ProductID    string
	ProductName  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	RefundAmount decimal.Decimal
}

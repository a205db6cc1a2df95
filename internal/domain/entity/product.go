package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product vista del catálogo que el core necesita: precios, impuesto y el
// stock vivo (campo cacheado que el libro de inventario mantiene en sincronía).
// El CRUD del catálogo es un colaborador externo; aquí solo se lee y se muta
// CurrentStock dentro de la misma transacción que el asiento del libro.
type Product struct {
	ID            string
	BusinessID    string
	ProductName   string
	SKU           string
	Barcode       string
	SellingPrice  decimal.Decimal
	CostPrice     decimal.Decimal
	TaxPercentage decimal.Decimal // ej. 18 = 18%
	Taxable       bool
	Active        bool
	CurrentStock  decimal.Decimal // hasta 3 decimales, admite unidades fraccionadas
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Employee vista mínima del directorio de empleados (colaborador externo).
type Employee struct {
	ID         string
	BusinessID string
	FullName   string
	Active     bool
}

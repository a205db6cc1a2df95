// Package pdf genera el recibo imprimible de una venta POS.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: RECIBO DE VENTA  │  N° Transacción + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Atendido por / Cliente                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuentos / TOTAL           │
//	│  Pagado / Cambio / Puntos ganados                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate genera el PDF del recibo y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(sale *dto.SaleResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+sale.TransactionNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(sale.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))
	m.AddRows(paymentRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° de transacción + fecha (der).
func headerRow(sale *dto.SaleResponse) core.Row {
	fecha := sale.SaleDate.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+sale.Status, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(sale.TransactionNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partiesRow: empleado que atendió y cliente (si hay).
func partiesRow(sale *dto.SaleResponse) core.Row {
	cliente := sale.CustomerName
	if cliente == "" {
		cliente = "Venta de mostrador"
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("ATENDIDO POR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(sale.EmployeeName, "—"), props.Text{Size: 9, Top: 7}),
		),
		col.New(6).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(cliente, props.Text{Size: 9, Top: 7}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de venta.
func tableItemRows(items []dto.SaleItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.DiscountAmount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *dto.SaleResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(d decimal.Decimal) core.Component {
		return text.New(d.StringFixed(2), props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
	})
	grandValue := text.New(sale.TotalAmount.StringFixed(2), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
	})

	descuentos := sale.DiscountAmount.Add(sale.LoyaltyDiscount)

	return row.New(32).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("Impuesto:"),
			label("Descuentos:"),
			grandLabel,
		),
		col.New(4).Add(
			value(sale.Subtotal),
			value(sale.TaxAmount),
			value(descuentos.Neg()),
			grandValue,
		),
	)
}

// paymentRow: pago, cambio y puntos ganados.
func paymentRow(sale *dto.SaleResponse) core.Row {
	lines := fmt.Sprintf("Pagado (%s): %s   |   Cambio: %s",
		sale.PaymentMethod, sale.AmountPaid.StringFixed(2), sale.ChangeAmount.StringFixed(2))
	puntos := ""
	if sale.LoyaltyPointsEarned.IsPositive() || sale.LoyaltyPointsRedeemed.IsPositive() {
		puntos = fmt.Sprintf("Puntos ganados: %s   |   Puntos redimidos: %s",
			sale.LoyaltyPointsEarned.StringFixed(2), sale.LoyaltyPointsRedeemed.StringFixed(2))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(lines, props.Text{Size: 9, Top: 2}),
			text.New(puntos, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saleRequest(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		EmployeeID:    testEmployeeID,
		Items:         items,
		PaymentMethod: entity.PaymentMethodCash,
		AmountPaid:    dec("300.00"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta simple: 2 unidades de un producto de 100.00 con 18% de impuesto.
// Totales esperados: subtotal 200.00, impuesto 36.00, total 236.00; con pago
// de 300.00 el cambio es 64.00. El stock baja de 10 a 8 con un asiento SALE_OUT.
// ──────────────────────────────────────────────────────────────────────────────
func TestCreateSale_VentaSimpleConImpuesto(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.proc.CreateSale(context.Background(), testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("2")}))
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(dec("200.00")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.TaxAmount.Equal(dec("36.00")), "impuesto: %s", resp.TaxAmount)
	assert.True(t, resp.TotalAmount.Equal(dec("236.00")), "total: %s", resp.TotalAmount)
	assert.True(t, resp.ChangeAmount.Equal(dec("64.00")), "cambio: %s", resp.ChangeAmount)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, resp.Locked, "la venta completada debe quedar bloqueada")
	assert.Regexp(t, `^TXN-\d{8}-\d{5}$`, resp.TransactionNumber)

	// Stock descontado y asiento en el libro.
	product := env.store.products[prodGravadoID]
	assert.True(t, product.CurrentStock.Equal(dec("8")), "stock: %s", product.CurrentStock)
	require.Len(t, env.store.movements, 1)
	mov := env.store.movements[0]
	assert.Equal(t, entity.MovementTypeSaleOut, mov.MovementType)
	assert.True(t, mov.Quantity.Equal(dec("-2")), "cantidad firmada: %s", mov.Quantity)
	assert.True(t, mov.StockBefore.Equal(dec("10")))
	assert.True(t, mov.StockAfter.Equal(dec("8")))
	assert.Equal(t, resp.TransactionNumber, mov.ReferenceID)

	// Evento de auditoría encolado.
	require.Len(t, env.store.events, 1)
	assert.Equal(t, entity.AuditActionSaleCreated, env.store.events[0].Action)
}

// Venta multi-línea mezclando producto gravado y exento.
func TestCreateSale_MultiLineaGravadoYExento(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.proc.CreateSale(context.Background(), testBizID, testUser,
		saleRequest(
			dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")},
			dto.SaleItemRequest{ProductID: prodExentoID, Quantity: dec("2")},
		))
	require.NoError(t, err)

	// 100 + 100×18% + 50×2 = 218.00
	assert.True(t, resp.Subtotal.Equal(dec("200.00")))
	assert.True(t, resp.TaxAmount.Equal(dec("18.00")), "solo la línea gravada aporta impuesto")
	assert.True(t, resp.TotalAmount.Equal(dec("218.00")))
	assert.Len(t, resp.Items, 2)
	assert.Len(t, env.store.movements, 2, "un asiento por línea")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fidelización: cliente con 50 puntos redime 20 (descuento 20.00 con tasa 1:1).
// Total 236.00 − 20.00 = 216.00; gana 216×0.01 = 2.16 puntos. El libro asienta
// primero la redención (saldo 30) y luego la acumulación (saldo 32.16).
// ──────────────────────────────────────────────────────────────────────────────
func TestCreateSale_RedencionYAcumulacionDePuntos(t *testing.T) {
	env := newTestEnv(t)

	in := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("2")})
	in.CustomerID = testCustomerID
	in.LoyaltyPointsToRedeem = dec("20")

	resp, err := env.proc.CreateSale(context.Background(), testBizID, testUser, in)
	require.NoError(t, err)

	assert.True(t, resp.LoyaltyDiscount.Equal(dec("20.00")), "descuento por puntos: %s", resp.LoyaltyDiscount)
	assert.True(t, resp.TotalAmount.Equal(dec("216.00")), "total: %s", resp.TotalAmount)
	assert.True(t, resp.LoyaltyPointsRedeemed.Equal(dec("20")))
	assert.True(t, resp.LoyaltyPointsEarned.Equal(dec("2.16")), "puntos ganados: %s", resp.LoyaltyPointsEarned)

	// Libro de puntos: REDEEMED primero, EARNED después, cada uno con su saldo.
	require.Len(t, env.store.loyaltyTxns, 2)
	redeemed, earned := env.store.loyaltyTxns[0], env.store.loyaltyTxns[1]
	assert.Equal(t, entity.LoyaltyTxnRedeemed, redeemed.Type)
	assert.True(t, redeemed.Points.Equal(dec("-20")), "la redención se asienta en negativo")
	assert.True(t, redeemed.BalanceAfter.Equal(dec("30")))
	assert.Equal(t, entity.LoyaltyTxnEarned, earned.Type)
	assert.True(t, earned.Points.Equal(dec("2.16")))
	assert.True(t, earned.BalanceAfter.Equal(dec("32.16")))

	// Cliente actualizado: saldo, gasto acumulado y visitas.
	customer := env.store.customers[testCustomerID]
	assert.True(t, customer.LoyaltyPoints.Equal(dec("32.16")), "saldo final: %s", customer.LoyaltyPoints)
	assert.True(t, customer.TotalSpent.Equal(dec("216.00")))
	assert.Equal(t, int64(1), customer.TotalVisits)
}

// Redimir más puntos de los que el cliente tiene falla y no persiste nada.
func TestCreateSale_SaldoDePuntosInsuficiente(t *testing.T) {
	env := newTestEnv(t)

	in := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")})
	in.CustomerID = testCustomerID
	in.LoyaltyPointsToRedeem = dec("100") // el cliente solo tiene 50

	_, err := env.proc.CreateSale(context.Background(), testBizID, testUser, in)
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok, "debe ser error de regla de negocio, fue: %v", err)
	assert.Equal(t, domain.CodeInsufficientLoyaltyPoints, bre.Code)

	// Rollback completo: stock intacto, sin ventas ni asientos de puntos.
	assert.True(t, env.store.products[prodGravadoID].CurrentStock.Equal(dec("10")))
	assert.Empty(t, env.store.sales)
	assert.Empty(t, env.store.loyaltyTxns)
	assert.True(t, env.store.customers[testCustomerID].LoyaltyPoints.Equal(dec("50")))
}

// Redimir por debajo del mínimo configurado (10 puntos) falla antes de tocar nada.
func TestCreateSale_RedencionBajoElMinimo(t *testing.T) {
	env := newTestEnv(t)

	in := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")})
	in.CustomerID = testCustomerID
	in.LoyaltyPointsToRedeem = dec("5")

	_, err := env.proc.CreateSale(context.Background(), testBizID, testUser, in)
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientLoyaltyPoints, bre.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock insuficiente: la venta falla con INSUFFICIENT_STOCK y NADA queda
// persistido (ni venta, ni asientos, ni cambio de stock).
// ──────────────────────────────────────────────────────────────────────────────
func TestCreateSale_StockInsuficiente_NadaPersiste(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.proc.CreateSale(context.Background(), testBizID, testUser,
		saleRequest(
			dto.SaleItemRequest{ProductID: prodExentoID, Quantity: dec("1")},  // esta línea sí alcanzaba
			dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("20")}, // stock: 10
		))
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok, "debe ser error de regla de negocio, fue: %v", err)
	assert.Equal(t, domain.CodeInsufficientStock, bre.Code)

	// Atomicidad: la primera línea ya había descontado dentro de la transacción,
	// pero el rollback lo revierte todo.
	assert.True(t, env.store.products[prodExentoID].CurrentStock.Equal(dec("5")))
	assert.True(t, env.store.products[prodGravadoID].CurrentStock.Equal(dec("10")))
	assert.Empty(t, env.store.sales)
	assert.Empty(t, env.store.movements)
}

// Pago insuficiente: 236.00 de total contra 200.00 pagados.
func TestCreateSale_PagoInsuficiente(t *testing.T) {
	env := newTestEnv(t)

	in := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("2")})
	in.AmountPaid = dec("200.00")

	_, err := env.proc.CreateSale(context.Background(), testBizID, testUser, in)
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientPayment, bre.Code)
	assert.Empty(t, env.store.sales)
}

// Producto inactivo en el catálogo.
func TestCreateSale_ProductoInactivo(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.proc.CreateSale(context.Background(), testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodInactivoID, Quantity: dec("1")}))
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInactiveProduct, bre.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada y aislamiento por negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ValidacionDeEntrada(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Sin líneas.
	_, err := env.proc.CreateSale(ctx, testBizID, testUser, saleRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad cero.
	_, err = env.proc.CreateSale(ctx, testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: decimal.Zero}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Método de pago desconocido.
	in := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")})
	in.PaymentMethod = "CHEQUE"
	_, err = env.proc.CreateSale(ctx, testBizID, testUser, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Redimir puntos sin cliente.
	in2 := saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")})
	in2.LoyaltyPointsToRedeem = dec("20")
	_, err = env.proc.CreateSale(ctx, testBizID, testUser, in2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un negocio no puede vender productos ni usar empleados de otro tenant.
func TestCreateSale_AislamientoPorNegocio(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.proc.CreateSale(context.Background(), testOtherBiz, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")}))
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"el empleado pertenece a otro negocio: debe responder como no encontrado")
}

// Números de transacción consecutivos dentro del mismo día y negocio.
func TestCreateSale_NumeracionConsecutiva(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r1, err := env.proc.CreateSale(ctx, testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")}))
	require.NoError(t, err)
	r2, err := env.proc.CreateSale(ctx, testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")}))
	require.NoError(t, err)

	assert.NotEqual(t, r1.TransactionNumber, r2.TransactionNumber)
	assert.Regexp(t, `-00001$`, r1.TransactionNumber)
	assert.Regexp(t, `-00002$`, r2.TransactionNumber)
}

// GetSale devuelve la venta con líneas y nombres resueltos.
func TestGetSale_VistaCompleta(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.proc.CreateSale(ctx, testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("2")}))
	require.NoError(t, err)

	got, err := env.proc.GetSale(ctx, testBizID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TransactionNumber, got.TransactionNumber)
	assert.Equal(t, "Ana Cajera", got.EmployeeName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Café Premium 500g", got.Items[0].ProductName)

	// Una venta de otro negocio no es visible.
	_, err = env.proc.GetSale(ctx, testOtherBiz, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// También accesible por número de transacción.
	byNumber, err := env.proc.GetSaleByTransactionNumber(ctx, testBizID, created.TransactionNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)
}

// RenderReceipt delega en el generador con la vista completa.
func TestRenderReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.proc.CreateSale(ctx, testBizID, testUser,
		saleRequest(dto.SaleItemRequest{ProductID: prodGravadoID, Quantity: dec("1")}))
	require.NoError(t, err)

	pdf, err := env.proc.RenderReceipt(ctx, testBizID, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

package loyalty_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-core-api/internal/application/loyalty"
	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// ── Fakes mínimos ─────────────────────────────────────────────────────────────

type fakeConfigRepo struct {
	configs map[string]*entity.LoyaltyConfig
	creates int
}

func (r *fakeConfigRepo) GetActiveByBusiness(businessID string) (*entity.LoyaltyConfig, error) {
	return r.configs[businessID], nil
}
func (r *fakeConfigRepo) Create(cfg *entity.LoyaltyConfig) error {
	r.configs[cfg.BusinessID] = cfg
	r.creates++
	return nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error)      { return r.customers[id], nil }
func (r *fakeCustomerRepo) GetForUpdate(id string) (*entity.Customer, error) { return r.customers[id], nil }
func (r *fakeCustomerRepo) UpdateLoyalty(c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

type fakeTxnRepo struct {
	txns []*entity.LoyaltyTransaction
}

func (r *fakeTxnRepo) Create(txn *entity.LoyaltyTransaction) error {
	r.txns = append(r.txns, txn)
	return nil
}
func (r *fakeTxnRepo) GetLatestByCustomer(businessID, customerID string) (*entity.LoyaltyTransaction, error) {
	for i := len(r.txns) - 1; i >= 0; i-- {
		if r.txns[i].BusinessID == businessID && r.txns[i].CustomerID == customerID {
			return r.txns[i], nil
		}
	}
	return nil, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLedger() (*loyalty.Ledger, *fakeConfigRepo) {
	configRepo := &fakeConfigRepo{configs: make(map[string]*entity.LoyaltyConfig)}
	return loyalty.NewLedger(configRepo, zerolog.Nop()), configRepo
}

func newCustomer(points string) *entity.Customer {
	return &entity.Customer{
		ID:            "cust-1",
		BusinessID:    "biz-1",
		FullName:      "Carlos Cliente",
		LoyaltyPoints: dec(points),
		TotalSpent:    decimal.Zero,
		LoyaltyTier:   entity.TierBronze,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración perezosa
// ──────────────────────────────────────────────────────────────────────────────

// Si el negocio no tiene configuración activa se crea una con los defaults,
// y las llamadas siguientes la reutilizan.
func TestGetOrCreateConfig_CreacionPerezosa(t *testing.T) {
	ledger, configRepo := newLedger()
	ctx := context.Background()

	cfg, err := ledger.GetOrCreateConfig(ctx, "biz-1")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	assert.True(t, cfg.PointsPerCurrencyUnit.Equal(dec("0.01")))
	assert.Equal(t, 1, configRepo.creates)

	_, err = ledger.GetOrCreateConfig(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, 1, configRepo.creates, "la segunda llamada no debe crear otra configuración")
}

func TestCalculateRedemptionValue_BajoElMinimo(t *testing.T) {
	ledger, _ := newLedger()

	_, err := ledger.CalculateRedemptionValue(context.Background(), "biz-1", dec("9"))
	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok, "debe ser error de regla de negocio, fue: %v", err)
	assert.Equal(t, domain.CodeInsufficientLoyaltyPoints, bre.Code)

	value, err := ledger.CalculateRedemptionValue(context.Background(), "biz-1", dec("10"))
	require.NoError(t, err)
	assert.True(t, value.Equal(dec("10.00")))
}

// ──────────────────────────────────────────────────────────────────────────────
// SettleInTx — liquidación de la venta en el libro de puntos
// ──────────────────────────────────────────────────────────────────────────────

// Redención antes que acumulación, cada asiento con su saldo posterior, y el
// cliente termina con saldo, gasto, visitas y nivel actualizados.
func TestSettleInTx_RedimeYAcumulaEnOrden(t *testing.T) {
	ledger, _ := newLedger()
	customer := newCustomer("50")
	customerRepo := &fakeCustomerRepo{customers: map[string]*entity.Customer{customer.ID: customer}}
	txnRepo := &fakeTxnRepo{}

	err := ledger.SettleInTx(customerRepo, txnRepo, customer, "sale-1",
		dec("2.16"), dec("20"), dec("216.00"), time.Now())
	require.NoError(t, err)

	require.Len(t, txnRepo.txns, 2)
	redeemed, earned := txnRepo.txns[0], txnRepo.txns[1]

	assert.Equal(t, entity.LoyaltyTxnRedeemed, redeemed.Type)
	assert.True(t, redeemed.Points.Equal(dec("-20")))
	assert.True(t, redeemed.BalanceAfter.Equal(dec("30")))
	assert.Equal(t, "sale-1", redeemed.SaleID)

	assert.Equal(t, entity.LoyaltyTxnEarned, earned.Type)
	assert.True(t, earned.Points.Equal(dec("2.16")))
	assert.True(t, earned.BalanceAfter.Equal(dec("32.16")))

	assert.True(t, customer.LoyaltyPoints.Equal(dec("32.16")))
	assert.True(t, customer.TotalSpent.Equal(dec("216.00")))
	assert.Equal(t, int64(1), customer.TotalVisits)
	// El saldo del cliente coincide con el BalanceAfter del último asiento.
	assert.True(t, customer.LoyaltyPoints.Equal(earned.BalanceAfter))
}

// Sin puntos a redimir ni ganar: no se asientan transacciones, pero el gasto
// y las visitas sí cuentan.
func TestSettleInTx_SinPuntos(t *testing.T) {
	ledger, _ := newLedger()
	customer := newCustomer("0")
	customerRepo := &fakeCustomerRepo{customers: map[string]*entity.Customer{customer.ID: customer}}
	txnRepo := &fakeTxnRepo{}

	err := ledger.SettleInTx(customerRepo, txnRepo, customer, "sale-1",
		decimal.Zero, decimal.Zero, dec("99.00"), time.Now())
	require.NoError(t, err)

	assert.Empty(t, txnRepo.txns)
	assert.True(t, customer.TotalSpent.Equal(dec("99.00")))
	assert.Equal(t, int64(1), customer.TotalVisits)
}

// Saldo insuficiente: falla sin asentar nada ni tocar al cliente.
func TestSettleInTx_SaldoInsuficiente(t *testing.T) {
	ledger, _ := newLedger()
	customer := newCustomer("10")
	customerRepo := &fakeCustomerRepo{customers: map[string]*entity.Customer{customer.ID: customer}}
	txnRepo := &fakeTxnRepo{}

	err := ledger.SettleInTx(customerRepo, txnRepo, customer, "sale-1",
		decimal.Zero, dec("15"), dec("100.00"), time.Now())

	bre, ok := domain.AsBusinessRule(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientLoyaltyPoints, bre.Code)
	assert.Empty(t, txnRepo.txns)
	assert.True(t, customer.LoyaltyPoints.Equal(dec("10")))
	assert.Equal(t, int64(0), customer.TotalVisits)
}

// El gasto acumulado sube de nivel al cliente cuando cruza un umbral.
func TestSettleInTx_AscensoDeNivel(t *testing.T) {
	ledger, _ := newLedger()
	customer := newCustomer("0")
	customer.TotalSpent = dec("19500")
	customerRepo := &fakeCustomerRepo{customers: map[string]*entity.Customer{customer.ID: customer}}
	txnRepo := &fakeTxnRepo{}

	err := ledger.SettleInTx(customerRepo, txnRepo, customer, "sale-1",
		dec("6.00"), decimal.Zero, dec("600.00"), time.Now())
	require.NoError(t, err)

	assert.True(t, customer.TotalSpent.Equal(dec("20100")))
	assert.Equal(t, entity.TierSilver, customer.LoyaltyTier, "cruzó el umbral de 20.000")
}

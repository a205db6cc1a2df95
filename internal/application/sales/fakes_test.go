package sales_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/loyalty"
	"github.com/jhoicas/pos-core-api/internal/application/sales"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base de datos: un solo estado compartido por todos los
// repos. memTxRunner toma un snapshot antes de ejecutar fn y lo restaura si fn
// falla, reproduciendo el todo-o-nada de la transacción real. Así los tests de
// atomicidad ("si falla, nada queda persistido") corren sin PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products    map[string]*entity.Product
	movements   []*entity.StockMovement
	sales       map[string]*entity.Sale
	saleItems   map[string][]*entity.SaleItem
	refunds     map[string]*entity.Refund
	refundItems map[string][]*entity.RefundItem
	customers   map[string]*entity.Customer
	employees   map[string]*entity.Employee
	loyaltyTxns []*entity.LoyaltyTransaction
	configs     map[string]*entity.LoyaltyConfig
	seqs        map[string]int64
	events      []*entity.AuditEvent
}

func newMemStore() *memStore {
	return &memStore{
		products:    make(map[string]*entity.Product),
		sales:       make(map[string]*entity.Sale),
		saleItems:   make(map[string][]*entity.SaleItem),
		refunds:     make(map[string]*entity.Refund),
		refundItems: make(map[string][]*entity.RefundItem),
		customers:   make(map[string]*entity.Customer),
		employees:   make(map[string]*entity.Employee),
		configs:     make(map[string]*entity.LoyaltyConfig),
		seqs:        make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for _, m := range s.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, items := range s.saleItems {
		for _, it := range items {
			cp := *it
			c.saleItems[k] = append(c.saleItems[k], &cp)
		}
	}
	for k, v := range s.refunds {
		cp := *v
		c.refunds[k] = &cp
	}
	for k, items := range s.refundItems {
		for _, it := range items {
			cp := *it
			c.refundItems[k] = append(c.refundItems[k], &cp)
		}
	}
	for k, v := range s.customers {
		cp := *v
		c.customers[k] = &cp
	}
	for k, v := range s.employees {
		cp := *v
		c.employees[k] = &cp
	}
	for _, txn := range s.loyaltyTxns {
		cp := *txn
		c.loyaltyTxns = append(c.loyaltyTxns, &cp)
	}
	for k, v := range s.configs {
		cp := *v
		c.configs[k] = &cp
	}
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	c.events = append(c.events, s.events...)
	return c
}

// ── Repos ─────────────────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) get(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error)       { return r.get(id) }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error)  { return r.get(id) }
func (r *memProductRepo) GetBySKU(businessID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) GetByBarcode(businessID, barcode string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	r.s.products[id].CurrentStock = newStock
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(mov *entity.StockMovement) error {
	cp := *mov
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *memMovementRepo) ListByProduct(businessID, productID string, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.s.movements[i]
		if m.BusinessID == businessID && m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memMovementRepo) SumByProduct(businessID, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.s.movements {
		if m.BusinessID == businessID && m.ProductID == productID {
			total = total.Add(m.Quantity)
		}
	}
	return total, nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.s.sales[sale.ID] = &cp
	return nil
}
func (r *memSaleRepo) CreateItem(item *entity.SaleItem) error {
	cp := *item
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], &cp)
	return nil
}
func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}
func (r *memSaleRepo) GetByTransactionNumber(businessID, txn string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.BusinessID == businessID && sale.TransactionNumber == txn {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.saleItems[saleID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memSaleRepo) UpdateStatus(id, status string) error {
	r.s.sales[id].Status = status
	return nil
}

type memRefundRepo struct{ s *memStore }

func (r *memRefundRepo) Create(refund *entity.Refund) error {
	cp := *refund
	cp.Items = nil
	r.s.refunds[refund.ID] = &cp
	return nil
}
func (r *memRefundRepo) CreateItem(item *entity.RefundItem) error {
	cp := *item
	r.s.refundItems[item.RefundID] = append(r.s.refundItems[item.RefundID], &cp)
	return nil
}
func (r *memRefundRepo) GetByID(id string) (*entity.Refund, error) {
	refund, ok := r.s.refunds[id]
	if !ok {
		return nil, nil
	}
	cp := *refund
	return &cp, nil
}
func (r *memRefundRepo) GetItemsByRefundID(refundID string) ([]*entity.RefundItem, error) {
	var out []*entity.RefundItem
	for _, it := range r.s.refundItems[refundID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memRefundRepo) RefundedQuantities(originalSaleID string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, refund := range r.s.refunds {
		if refund.OriginalSaleID != originalSaleID {
			continue
		}
		for _, it := range r.s.refundItems[refund.ID] {
			out[it.ProductID] = out[it.ProductID].Add(it.Quantity)
		}
	}
	return out, nil
}

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) get(id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error)      { return r.get(id) }
func (r *memCustomerRepo) GetForUpdate(id string) (*entity.Customer, error) { return r.get(id) }
func (r *memCustomerRepo) UpdateLoyalty(c *entity.Customer) error {
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

type memEmployeeRepo struct{ s *memStore }

func (r *memEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	e, ok := r.s.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

type memLoyaltyTxnRepo struct{ s *memStore }

func (r *memLoyaltyTxnRepo) Create(txn *entity.LoyaltyTransaction) error {
	cp := *txn
	r.s.loyaltyTxns = append(r.s.loyaltyTxns, &cp)
	return nil
}
func (r *memLoyaltyTxnRepo) GetLatestByCustomer(businessID, customerID string) (*entity.LoyaltyTransaction, error) {
	for i := len(r.s.loyaltyTxns) - 1; i >= 0; i-- {
		txn := r.s.loyaltyTxns[i]
		if txn.BusinessID == businessID && txn.CustomerID == customerID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, nil
}

type memConfigRepo struct{ s *memStore }

func (r *memConfigRepo) GetActiveByBusiness(businessID string) (*entity.LoyaltyConfig, error) {
	cfg, ok := r.s.configs[businessID]
	if !ok || !cfg.Active {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}
func (r *memConfigRepo) Create(cfg *entity.LoyaltyConfig) error {
	cp := *cfg
	r.s.configs[cfg.BusinessID] = &cp
	return nil
}

type memSequenceRepo struct{ s *memStore }

func (r *memSequenceRepo) Next(businessID, kind, day string) (int64, error) {
	key := businessID + "|" + kind + "|" + day
	r.s.seqs[key]++
	return r.s.seqs[key], nil
}

type memAuditOutbox struct{ s *memStore }

func (r *memAuditOutbox) Record(event *entity.AuditEvent) error {
	cp := *event
	r.s.events = append(r.s.events, &cp)
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) RunSale(_ context.Context, fn func(sales.TxRepos) error) error {
	snapshot := r.s.clone()
	err := fn(sales.TxRepos{
		Products:    &memProductRepo{r.s},
		Movements:   &memMovementRepo{r.s},
		Sales:       &memSaleRepo{r.s},
		Refunds:     &memRefundRepo{r.s},
		Customers:   &memCustomerRepo{r.s},
		LoyaltyTxns: &memLoyaltyTxnRepo{r.s},
		Sequences:   &memSequenceRepo{r.s},
	})
	if err != nil {
		*r.s = *snapshot
	}
	return err
}

type fakeReceiptGen struct{}

func (fakeReceiptGen) Generate(_ *dto.SaleResponse) ([]byte, error) {
	return []byte("%PDF-1.4 recibo de prueba"), nil
}

// ── Entorno de prueba ─────────────────────────────────────────────────────────

const (
	testBizID      = "biz-1"
	testOtherBiz   = "biz-2"
	testEmployeeID = "emp-1"
	testCustomerID = "cust-1"
	testUser       = "user-1"
	prodGravadoID  = "prod-gravado"   // 100.00, 18%, stock 10
	prodExentoID   = "prod-exento"    // 50.00, exento, stock 5
	prodInactivoID = "prod-inactivo"
)

type testEnv struct {
	store *memStore
	proc  *sales.Processor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := newMemStore()

	s.employees[testEmployeeID] = &entity.Employee{
		ID: testEmployeeID, BusinessID: testBizID, FullName: "Ana Cajera", Active: true,
	}
	s.customers[testCustomerID] = &entity.Customer{
		ID: testCustomerID, BusinessID: testBizID, FullName: "Carlos Cliente",
		LoyaltyPoints: decimal.NewFromInt(50),
		TotalSpent:    decimal.Zero,
		LoyaltyTier:   entity.TierBronze,
	}
	s.products[prodGravadoID] = &entity.Product{
		ID: prodGravadoID, BusinessID: testBizID, ProductName: "Café Premium 500g", SKU: "CAF-500",
		SellingPrice:  decimal.RequireFromString("100.00"),
		CostPrice:     decimal.RequireFromString("60.00"),
		TaxPercentage: decimal.NewFromInt(18),
		Taxable:       true,
		Active:        true,
		CurrentStock:  decimal.NewFromInt(10),
	}
	s.products[prodExentoID] = &entity.Product{
		ID: prodExentoID, BusinessID: testBizID, ProductName: "Pan Integral", SKU: "PAN-001",
		SellingPrice: decimal.RequireFromString("50.00"),
		CostPrice:    decimal.RequireFromString("30.00"),
		Taxable:      false,
		Active:       true,
		CurrentStock: decimal.NewFromInt(5),
	}
	s.products[prodInactivoID] = &entity.Product{
		ID: prodInactivoID, BusinessID: testBizID, ProductName: "Producto Retirado", SKU: "RET-001",
		SellingPrice: decimal.RequireFromString("10.00"),
		Taxable:      true,
		Active:       false,
		CurrentStock: decimal.NewFromInt(100),
	}

	log := zerolog.Nop()
	stockLedger := stockledger.NewLedger(&memMovementRepo{s}, &memProductRepo{s})
	loyaltyLedger := loyalty.NewLedger(&memConfigRepo{s}, log)

	proc := sales.NewProcessor(
		&memTxRunner{s}, stockLedger, loyaltyLedger,
		&memEmployeeRepo{s}, &memCustomerRepo{s}, &memSaleRepo{s}, &memRefundRepo{s},
		&memAuditOutbox{s}, fakeReceiptGen{}, log,
	)
	return &testEnv{store: s, proc: proc}
}

package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

const tracerName = "pos-core/sales"

// Processor orquestador de ventas y devoluciones POS. Cada operación de
// escritura corre como una sola unidad atómica: stock, puntos y agregado
// venta/devolución se confirman juntos o no se confirma nada.
type Processor struct {
	txRunner      TxRunner
	stockLedger   StockLedger
	loyaltyLedger LoyaltyLedger
	employeeRepo  repository.EmployeeRepository
	customerRepo  repository.CustomerRepository
	saleRepo      repository.SaleRepository
	refundRepo    repository.RefundRepository
	auditOutbox   repository.AuditOutbox
	receiptGen    ReceiptGenerator
	log           zerolog.Logger
}

// NewProcessor construye el procesador de transacciones.
func NewProcessor(
	txRunner TxRunner,
	stockLedger StockLedger,
	loyaltyLedger LoyaltyLedger,
	employeeRepo repository.EmployeeRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	refundRepo repository.RefundRepository,
	auditOutbox repository.AuditOutbox,
	receiptGen ReceiptGenerator,
	log zerolog.Logger,
) *Processor {
	return &Processor{
		txRunner:      txRunner,
		stockLedger:   stockLedger,
		loyaltyLedger: loyaltyLedger,
		employeeRepo:  employeeRepo,
		customerRepo:  customerRepo,
		saleRepo:      saleRepo,
		refundRepo:    refundRepo,
		auditOutbox:   auditOutbox,
		receiptGen:    receiptGen,
		log:           log,
	}
}

// CreateSale valida y confirma una venta POS: descuenta inventario línea a
// línea, calcula totales e impuestos, liquida puntos de fidelización y
// persiste el agregado, todo dentro de una transacción. businessID y userID
// llegan del contexto de la petición; nunca de estado global.
func (p *Processor) CreateSale(ctx context.Context, businessID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sales.create")
	defer span.End()

	if businessID == "" || in.EmployeeID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.AmountPaid.LessThan(decimal.Zero) || in.DiscountAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) || it.DiscountAmount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Empleado y cliente se validan fuera de la transacción (solo lectura).
	employee, err := p.employeeRepo.GetByID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}

	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = p.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.BusinessID != businessID {
			return nil, domain.ErrNotFound
		}
	}

	// Valor de la redención según configuración (el saldo se valida dentro de
	// la transacción, con la fila del cliente bloqueada).
	pointsToRedeem := in.LoyaltyPointsToRedeem
	loyaltyDiscount := decimal.Zero
	if pointsToRedeem.GreaterThan(decimal.Zero) {
		if customer == nil {
			return nil, domain.ErrInvalidInput
		}
		loyaltyDiscount, err = p.loyaltyLedger.CalculateRedemptionValue(ctx, businessID, pointsToRedeem)
		if err != nil {
			return nil, err
		}
	} else {
		pointsToRedeem = decimal.Zero
	}

	now := time.Now()
	saleID := uuid.New().String()
	var sale *entity.Sale

	err = p.txRunner.RunSale(ctx, func(r TxRepos) error {
		seq, err := r.Sequences.Next(businessID, repository.SequenceKindSale, now.Format("20060102"))
		if err != nil {
			return err
		}
		transactionNumber := fmt.Sprintf("TXN-%s-%05d", now.Format("20060102"), seq)

		subtotal := decimal.Zero
		totalTax := decimal.Zero
		items := make([]*entity.SaleItem, 0, len(in.Items))

		for _, itemReq := range in.Items {
			// Bloquea la fila del producto: el check de stock y el descuento
			// ocurren bajo el mismo lock.
			product, err := r.Products.GetForUpdate(itemReq.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.BusinessID != businessID {
				return domain.ErrNotFound
			}
			if !product.Active {
				return domain.NewBusinessRuleError(domain.CodeInactiveProduct,
					fmt.Sprintf("el producto '%s' está inactivo", product.ProductName))
			}
			if product.CurrentStock.LessThan(itemReq.Quantity) {
				return domain.NewBusinessRuleError(domain.CodeInsufficientStock,
					fmt.Sprintf("stock insuficiente para '%s'. Disponible: %s, Solicitado: %s",
						product.ProductName, product.CurrentStock.String(), itemReq.Quantity.String()))
			}

			lineSubtotal, itemTax, lineTotal := entity.ComputeLine(
				product.SellingPrice, itemReq.Quantity, itemReq.DiscountAmount,
				product.TaxPercentage, product.Taxable)

			items = append(items, &entity.SaleItem{
				ID:             uuid.New().String(),
				SaleID:         saleID,
				ProductID:      product.ID,
				ProductName:    product.ProductName,
				SKU:            product.SKU,
				Quantity:       itemReq.Quantity,
				UnitPrice:      product.SellingPrice,
				CostPrice:      product.CostPrice,
				DiscountAmount: itemReq.DiscountAmount,
				TaxAmount:      itemTax,
				TaxPercentage:  product.TaxPercentage,
				LineTotal:      lineTotal,
			})
			subtotal = subtotal.Add(lineSubtotal)
			totalTax = totalTax.Add(itemTax)

			if _, err := p.stockLedger.ApplyInTx(r.Movements, r.Products, product, stockledger.ApplyInput{
				BusinessID:    businessID,
				UserID:        userID,
				MovementType:  entity.MovementTypeSaleOut,
				Quantity:      itemReq.Quantity.Neg(),
				ReferenceID:   transactionNumber,
				ReferenceType: entity.ReferenceTypeSale,
				Notes:         "Venta: " + transactionNumber,
			}, now); err != nil {
				return err
			}
		}

		total := entity.ComputeTotal(subtotal, totalTax, in.DiscountAmount, loyaltyDiscount)
		change := in.AmountPaid.Sub(total)
		if change.LessThan(decimal.Zero) {
			return domain.NewBusinessRuleError(domain.CodeInsufficientPayment,
				fmt.Sprintf("el monto pagado (%s) es menor al total (%s)", in.AmountPaid.String(), total.String()))
		}

		pointsEarned := decimal.Zero
		if customer != nil {
			pointsEarned, err = p.loyaltyLedger.CalculatePointsEarned(ctx, businessID, total)
			if err != nil {
				return err
			}
		}

		sale = &entity.Sale{
			ID:                    saleID,
			BusinessID:            businessID,
			TransactionNumber:     transactionNumber,
			EmployeeID:            employee.ID,
			SaleDate:              now,
			Subtotal:              subtotal,
			TaxAmount:             totalTax,
			DiscountAmount:        in.DiscountAmount,
			LoyaltyPointsRedeemed: pointsToRedeem,
			LoyaltyDiscount:       loyaltyDiscount,
			TotalAmount:           total,
			AmountPaid:            in.AmountPaid,
			ChangeAmount:          change,
			PaymentMethod:         in.PaymentMethod,
			Status:                entity.SaleStatusCompleted,
			LoyaltyPointsEarned:   pointsEarned,
			Locked:                true,
			Notes:                 in.Notes,
			Items:                 items,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if customer != nil {
			sale.CustomerID = customer.ID
			// Redención + acumulación + estadísticas del cliente, con la fila
			// del cliente bloqueada en esta misma transacción.
			locked, err := r.Customers.GetForUpdate(customer.ID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			if err := p.loyaltyLedger.SettleInTx(r.Customers, r.LoyaltyTxns, locked, saleID,
				pointsEarned, pointsToRedeem, total, now); err != nil {
				return err
			}
		}

		if err := r.Sales.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Sales.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sale.transaction_number", sale.TransactionNumber),
		attribute.String("sale.total", sale.TotalAmount.String()),
	)

	p.audit(businessID, userID, entity.AuditActionSaleCreated, "Sale", sale.ID,
		fmt.Sprintf("Venta creada: %s | Total: %s", sale.TransactionNumber, sale.TotalAmount.String()))

	p.log.Info().
		Str("transaction_number", sale.TransactionNumber).
		Str("total", sale.TotalAmount.String()).
		Str("employee", employee.FullName).
		Msg("venta creada")

	customerName := ""
	if customer != nil {
		customerName = customer.FullName
	}
	return toSaleResponse(sale, employee.FullName, customerName), nil
}

// audit encola el evento en el outbox. Best-effort: cualquier fallo se
// registra en el log y jamás se propaga al caller.
func (p *Processor) audit(businessID, userID, action, entityType, entityID, description string) {
	event := &entity.AuditEvent{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := p.auditOutbox.Record(event); err != nil {
		p.log.Error().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Msg("no se pudo encolar el evento de auditoría")
	}
}

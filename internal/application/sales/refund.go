package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

// ProcessRefund revierte una venta completada, total o parcialmente:
// restituye inventario con asientos REFUND_IN, emite el agregado devolución y
// actualiza el estado de la venta original, todo en una transacción. La
// devolución se calcula sobre el precio unitario snapshot de la venta; no se
// re-deriva impuesto ni descuento proporcional.
func (p *Processor) ProcessRefund(ctx context.Context, businessID, userID string, in dto.RefundRequest) (*dto.RefundResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sales.refund")
	defer span.End()

	if businessID == "" || in.OriginalSaleID == "" || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	sale, err := p.saleRepo.GetByID(in.OriginalSaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	switch sale.Status {
	case entity.SaleStatusRefunded:
		return nil, domain.NewBusinessRuleError(domain.CodeAlreadyRefunded,
			"esta venta ya fue devuelta en su totalidad")
	case entity.SaleStatusVoid:
		return nil, domain.NewBusinessRuleError(domain.CodeVoidedSale,
			"no se puede devolver una venta anulada")
	}

	saleItems, err := p.saleRepo.GetItemsBySaleID(sale.ID)
	if err != nil {
		return nil, err
	}
	// Un producto puede aparecer en varias líneas de la venta: lo vendido se
	// acumula por producto y el control de devoluciones se hace sobre ese total.
	itemsByProduct := make(map[string]*entity.SaleItem, len(saleItems))
	soldByProduct := make(map[string]decimal.Decimal, len(saleItems))
	for _, it := range saleItems {
		soldByProduct[it.ProductID] = soldByProduct[it.ProductID].Add(it.Quantity)
		if _, ok := itemsByProduct[it.ProductID]; !ok {
			itemsByProduct[it.ProductID] = it
		}
	}

	isFull := len(in.Items) == 0
	now := time.Now()
	refundID := uuid.New().String()
	var refund *entity.Refund
	newStatus := ""

	err = p.txRunner.RunSale(ctx, func(r TxRepos) error {
		// Cantidades ya devueltas por devoluciones previas: el acumulado por
		// producto nunca puede superar lo vendido.
		refunded, err := r.Refunds.RefundedQuantities(sale.ID)
		if err != nil {
			return err
		}

		seq, err := r.Sequences.Next(businessID, repository.SequenceKindRefund, now.Format("20060102"))
		if err != nil {
			return err
		}
		refundNumber := fmt.Sprintf("RFN-%s-%05d", now.Format("20060102"), seq)

		refundType := entity.RefundTypePartial
		if isFull {
			refundType = entity.RefundTypeFull
		}
		refund = &entity.Refund{
			ID:                        refundID,
			BusinessID:                businessID,
			RefundNumber:              refundNumber,
			OriginalSaleID:            sale.ID,
			OriginalTransactionNumber: sale.TransactionNumber,
			RefundDate:                now,
			Reason:                    in.Reason,
			RefundType:                refundType,
			ProcessedByID:             userID,
			Notes:                     in.Notes,
			CreatedAt:                 now,
		}

		totalRefund := decimal.Zero
		restore := func(saleItem *entity.SaleItem, quantity decimal.Decimal) error {
			product, err := r.Products.GetForUpdate(saleItem.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if _, err := p.stockLedger.ApplyInTx(r.Movements, r.Products, product, stockledger.ApplyInput{
				BusinessID:    businessID,
				UserID:        userID,
				MovementType:  entity.MovementTypeRefundIn,
				Quantity:      quantity,
				ReferenceID:   refundNumber,
				ReferenceType: entity.ReferenceTypeRefund,
				Notes:         "Devolución de venta: " + sale.TransactionNumber,
			}, now); err != nil {
				return err
			}
			amount := saleItem.UnitPrice.Mul(quantity)
			refund.Items = append(refund.Items, &entity.RefundItem{
				ID:           uuid.New().String(),
				RefundID:     refundID,
				ProductID:    saleItem.ProductID,
				ProductName:  saleItem.ProductName,
				Quantity:     quantity,
				UnitPrice:    saleItem.UnitPrice,
				RefundAmount: amount,
			})
			totalRefund = totalRefund.Add(amount)
			refunded[saleItem.ProductID] = refunded[saleItem.ProductID].Add(quantity)
			return nil
		}

		if isFull {
			// Devolución total: revierte lo que quede sin devolver de cada línea.
			anyRestored := false
			for _, saleItem := range saleItems {
				pending := soldByProduct[saleItem.ProductID].Sub(refunded[saleItem.ProductID])
				if !pending.GreaterThan(decimal.Zero) {
					continue
				}
				quantity := saleItem.Quantity
				if pending.LessThan(quantity) {
					quantity = pending
				}
				if err := restore(saleItem, quantity); err != nil {
					return err
				}
				anyRestored = true
			}
			if !anyRestored {
				return domain.NewBusinessRuleError(domain.CodeAlreadyRefunded,
					"no quedan cantidades por devolver en esta venta")
			}
			newStatus = entity.SaleStatusRefunded
		} else {
			for _, itemReq := range in.Items {
				if !itemReq.Quantity.GreaterThan(decimal.Zero) {
					return domain.ErrInvalidInput
				}
				saleItem, ok := itemsByProduct[itemReq.ProductID]
				if !ok {
					return domain.NewBusinessRuleError(domain.CodeInvalidRefundItem,
						fmt.Sprintf("el producto %s no hace parte de la venta original", itemReq.ProductID))
				}
				remaining := soldByProduct[saleItem.ProductID].Sub(refunded[saleItem.ProductID])
				if itemReq.Quantity.GreaterThan(remaining) {
					return domain.NewBusinessRuleError(domain.CodeExcessiveRefundQuantity,
						fmt.Sprintf("no se puede devolver más de lo vendido de '%s'. Pendiente: %s, Solicitado: %s",
							saleItem.ProductName, remaining.String(), itemReq.Quantity.String()))
				}
				if err := restore(saleItem, itemReq.Quantity); err != nil {
					return err
				}
			}
			newStatus = entity.SaleStatusPartiallyRefunded
		}

		refund.RefundAmount = totalRefund
		if err := r.Refunds.Create(refund); err != nil {
			return err
		}
		for _, item := range refund.Items {
			if err := r.Refunds.CreateItem(item); err != nil {
				return err
			}
		}
		if err := r.Sales.UpdateStatus(sale.ID, newStatus); err != nil {
			return err
		}
		sale.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("refund.number", refund.RefundNumber),
		attribute.String("refund.amount", refund.RefundAmount.String()),
	)

	p.audit(businessID, userID, entity.AuditActionRefundProcessed, "Refund", refund.ID,
		fmt.Sprintf("Devolución procesada: %s para la venta %s | Monto: %s | Motivo: %s",
			refund.RefundNumber, sale.TransactionNumber, refund.RefundAmount.String(), in.Reason))

	p.log.Info().
		Str("refund_number", refund.RefundNumber).
		Str("transaction_number", sale.TransactionNumber).
		Str("amount", refund.RefundAmount.String()).
		Msg("devolución procesada")

	return toRefundResponse(refund, sale.Status), nil
}

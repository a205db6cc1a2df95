package sales

import (
	"context"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/domain"
	"github.com/jhoicas/pos-core-api/internal/domain/entity"
)

// GetSale obtiene una venta completa por ID dentro del negocio.
func (p *Processor) GetSale(ctx context.Context, businessID, saleID string) (*dto.SaleResponse, error) {
	_ = ctx
	sale, err := p.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return p.loadSaleView(sale)
}

// GetSaleByTransactionNumber obtiene una venta por su número legible.
func (p *Processor) GetSaleByTransactionNumber(ctx context.Context, businessID, transactionNumber string) (*dto.SaleResponse, error) {
	_ = ctx
	sale, err := p.saleRepo.GetByTransactionNumber(businessID, transactionNumber)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return p.loadSaleView(sale)
}

// GetRefund obtiene una devolución completa por ID dentro del negocio.
func (p *Processor) GetRefund(ctx context.Context, businessID, refundID string) (*dto.RefundResponse, error) {
	_ = ctx
	refund, err := p.refundRepo.GetByID(refundID)
	if err != nil {
		return nil, err
	}
	if refund == nil || refund.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	if len(refund.Items) == 0 {
		refund.Items, err = p.refundRepo.GetItemsByRefundID(refund.ID)
		if err != nil {
			return nil, err
		}
	}
	sale, err := p.saleRepo.GetByID(refund.OriginalSaleID)
	if err != nil {
		return nil, err
	}
	status := ""
	if sale != nil {
		status = sale.Status
	}
	return toRefundResponse(refund, status), nil
}

// RenderReceipt genera el recibo PDF de una venta.
func (p *Processor) RenderReceipt(ctx context.Context, businessID, saleID string) ([]byte, error) {
	view, err := p.GetSale(ctx, businessID, saleID)
	if err != nil {
		return nil, err
	}
	return p.receiptGen.Generate(view)
}

// loadSaleView completa líneas y nombres de empleado/cliente para la vista.
func (p *Processor) loadSaleView(sale *entity.Sale) (*dto.SaleResponse, error) {
	if len(sale.Items) == 0 {
		items, err := p.saleRepo.GetItemsBySaleID(sale.ID)
		if err != nil {
			return nil, err
		}
		sale.Items = items
	}
	employeeName := ""
	if emp, err := p.employeeRepo.GetByID(sale.EmployeeID); err == nil && emp != nil {
		employeeName = emp.FullName
	}
	customerName := ""
	if sale.CustomerID != "" {
		if cust, err := p.customerRepo.GetByID(sale.CustomerID); err == nil && cust != nil {
			customerName = cust.FullName
		}
	}
	return toSaleResponse(sale, employeeName, customerName), nil
}

func toSaleResponse(sale *entity.Sale, employeeName, customerName string) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                    sale.ID,
		TransactionNumber:     sale.TransactionNumber,
		EmployeeID:            sale.EmployeeID,
		EmployeeName:          employeeName,
		CustomerID:            sale.CustomerID,
		CustomerName:          customerName,
		SaleDate:              sale.SaleDate,
		Subtotal:              sale.Subtotal,
		TaxAmount:             sale.TaxAmount,
		DiscountAmount:        sale.DiscountAmount,
		LoyaltyPointsRedeemed: sale.LoyaltyPointsRedeemed,
		LoyaltyDiscount:       sale.LoyaltyDiscount,
		TotalAmount:           sale.TotalAmount,
		AmountPaid:            sale.AmountPaid,
		ChangeAmount:          sale.ChangeAmount,
		PaymentMethod:         sale.PaymentMethod,
		Status:                sale.Status,
		LoyaltyPointsEarned:   sale.LoyaltyPointsEarned,
		Locked:                sale.Locked,
		Notes:                 sale.Notes,
		Items:                 make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			TaxAmount:      it.TaxAmount,
			TaxPercentage:  it.TaxPercentage,
			LineTotal:      it.LineTotal,
		})
	}
	return resp
}

func toRefundResponse(refund *entity.Refund, saleStatus string) *dto.RefundResponse {
	resp := &dto.RefundResponse{
		ID:                        refund.ID,
		RefundNumber:              refund.RefundNumber,
		OriginalSaleID:            refund.OriginalSaleID,
		OriginalTransactionNumber: refund.OriginalTransactionNumber,
		RefundDate:                refund.RefundDate,
		RefundAmount:              refund.RefundAmount,
		Reason:                    refund.Reason,
		RefundType:                refund.RefundType,
		ProcessedByID:             refund.ProcessedByID,
		SaleStatus:                saleStatus,
		Notes:                     refund.Notes,
		Items:                     make([]dto.RefundItemResponse, 0, len(refund.Items)),
	}
	for _, it := range refund.Items {
		resp.Items = append(resp.Items, dto.RefundItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			RefundAmount: it.RefundAmount,
		})
	}
	return resp
}

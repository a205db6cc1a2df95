package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
)

// LedgerHandler consultas del libro de inventario (protegido).
type LedgerHandler struct {
	ledger *stockledger.Ledger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledger *stockledger.Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Movements historial de movimientos de un producto.
// GET /api/stock/:productId/movements?limit=50
func (h *LedgerHandler) Movements(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId requerido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	movements, err := h.ledger.Movements(c.UserContext(), businessID, productID, limit)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			MovementType:  m.MovementType,
			Quantity:      m.Quantity,
			StockBefore:   m.StockBefore,
			StockAfter:    m.StockAfter,
			ReferenceID:   m.ReferenceID,
			ReferenceType: m.ReferenceType,
			Notes:         m.Notes,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	return c.JSON(out)
}

// Reconcile compara la suma del libro con el stock vivo del catálogo.
// GET /api/stock/:productId/reconcile
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId requerido"})
	}
	result, err := h.ledger.Reconcile(c.UserContext(), businessID, productID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(result)
}

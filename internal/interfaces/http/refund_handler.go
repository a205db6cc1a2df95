package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/sales"
)

// RefundHandler maneja las peticiones HTTP de devoluciones (protegido).
type RefundHandler struct {
	processor *sales.Processor
}

// NewRefundHandler construye el handler.
func NewRefundHandler(processor *sales.Processor) *RefundHandler {
	return &RefundHandler{processor: processor}
}

// Create procesa una devolución total o parcial.
// POST /api/refunds
func (h *RefundHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RefundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	refund, err := h.processor.ProcessRefund(c.UserContext(), businessID, userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(refund)
}

// GetByID obtiene el detalle de una devolución.
// GET /api/refunds/:id
func (h *RefundHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	refund, err := h.processor.GetRefund(c.UserContext(), businessID, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(refund)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-core-api/internal/application/dto"
	"github.com/jhoicas/pos-core-api/internal/application/sales"
	"github.com/jhoicas/pos-core-api/internal/domain"
)

// SaleHandler maneja las peticiones HTTP de ventas y devoluciones (protegido).
type SaleHandler struct {
	processor *sales.Processor
}

// NewSaleHandler construye el handler.
func NewSaleHandler(processor *sales.Processor) *SaleHandler {
	return &SaleHandler{processor: processor}
}

// mapError traduce errores de dominio a respuestas HTTP. Las reglas de negocio
// van como 422 con su código estable; lo demás colapsa a un 500 genérico sin
// filtrar detalles internos.
func mapError(c *fiber.Ctx, err error) error {
	if bre, ok := domain.AsBusinessRule(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: bre.Code, Message: bre.Message})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// Create registra una venta POS completa.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.processor.CreateSale(c.UserContext(), businessID, userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID obtiene el detalle completo de una venta.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	sale, err := h.processor.GetSale(c.UserContext(), businessID, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(sale)
}

// GetByNumber obtiene una venta por su número de transacción.
// GET /api/sales/number/:number
func (h *SaleHandler) GetByNumber(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número requerido"})
	}
	sale, err := h.processor.GetSaleByTransactionNumber(c.UserContext(), businessID, number)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(sale)
}

// Receipt genera el recibo PDF de una venta.
// GET /api/sales/:id/receipt
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.processor.RenderReceipt(c.UserContext(), businessID, id)
	if err != nil {
		return mapError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	return c.Send(pdfBytes)
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// Códigos estables de reglas de negocio. Se exponen tal cual al cliente,
// que puede depender de ellos.
const (
	CodeInactiveProduct           = "INACTIVE_PRODUCT"
	CodeInsufficientStock         = "INSUFFICIENT_STOCK"
	CodeInsufficientPayment       = "INSUFFICIENT_PAYMENT"
	CodeInsufficientLoyaltyPoints = "INSUFFICIENT_LOYALTY_POINTS"
	CodeAlreadyRefunded           = "ALREADY_REFUNDED"
	CodeVoidedSale                = "VOIDED_SALE"
	CodeInvalidRefundItem         = "INVALID_REFUND_ITEM"
	CodeExcessiveRefundQuantity   = "EXCESSIVE_REFUND_QUANTITY"
	CodeInvalidMovement           = "INVALID_MOVEMENT"
)

// BusinessRuleError regla de negocio violada: código estable + mensaje humano.
// La capa HTTP lo mapea a 422.
type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Code + ": " + e.Message
}

// NewBusinessRuleError construye el error con código y mensaje.
func NewBusinessRuleError(code, message string) *BusinessRuleError {
	return &BusinessRuleError{Code: code, Message: message}
}

// AsBusinessRule devuelve el *BusinessRuleError si err lo es (directo o envuelto).
func AsBusinessRule(err error) (*BusinessRuleError, bool) {
	var bre *BusinessRuleError
	if errors.As(err, &bre) {
		return bre, true
	}
	return nil, false
}

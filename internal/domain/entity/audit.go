package entity

import "time"

// Acciones auditables del core transaccional.
const (
	AuditActionSaleCreated     = "SALE_CREATED"
	AuditActionRefundProcessed = "REFUND_PROCESSED"
)

// AuditEvent evento de auditoría encolado en el outbox. Su persistencia es
// best-effort e independiente de la transacción de negocio: un fallo aquí
// jamás revierte la venta o la devolución.
type AuditEvent struct {
	ID          string
	BusinessID  string
	UserID      string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	OldValue    string
	NewValue    string
	CreatedAt   time.Time
}

package repository

import "github.com/jhoicas/pos-core-api/internal/domain/entity"

// Tipos de secuencia para numeración de documentos.
const (
	SequenceKindSale   = "SALE"
	SequenceKindRefund = "REFUND"
)

// SequenceRepository contador atómico por negocio/tipo/día. Reemplaza el
// patrón contar-y-formatear: Next incrementa y devuelve en una sola sentencia,
// por lo que dos peticiones concurrentes nunca reciben el mismo valor.
type SequenceRepository interface {
	Next(businessID, kind, day string) (int64, error)
}

// AuditOutbox cola de eventos de auditoría. Record confirma en su propia
// unidad, independiente de la transacción de negocio del caller.
type AuditOutbox interface {
	Record(event *entity.AuditEvent) error
}

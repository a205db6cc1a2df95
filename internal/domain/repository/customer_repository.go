package repository

import "github.com/jhoicas/pos-core-api/internal/domain/entity"

// CustomerRepository directorio de clientes (colaborador externo). El core solo
// lee y muta los campos de fidelización.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente para el check-then-write del
	// saldo de puntos en redenciones concurrentes.
	GetForUpdate(id string) (*entity.Customer, error)
	UpdateLoyalty(c *entity.Customer) error
}

// EmployeeRepository directorio de empleados (colaborador externo, solo lectura).
type EmployeeRepository interface {
	GetByID(id string) (*entity.Employee, error)
}

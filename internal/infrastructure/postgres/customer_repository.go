package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.EmployeeRepository = (*EmployeeRepo)(nil)
)

// CustomerRepo acceso al directorio de clientes. El core solo lee y actualiza
// los campos de fidelización.
type CustomerRepo struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, business_id, full_name, COALESCE(phone, ''),
	loyalty_points, total_spent, total_visits, loyalty_tier, updated_at`

func (r *CustomerRepo) scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.BusinessID, &c.FullName, &c.Phone,
		&c.LoyaltyPoints, &c.TotalSpent, &c.TotalVisits, &c.LoyaltyTier, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND deleted = false`
	return r.scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del cliente hasta el commit. Llamar solo dentro
// de una transacción.
func (r *CustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND deleted = false FOR UPDATE`
	return r.scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// UpdateLoyalty persiste saldo de puntos, gasto acumulado, visitas y nivel.
func (r *CustomerRepo) UpdateLoyalty(c *entity.Customer) error {
	query := `
		UPDATE customers
		SET loyalty_points = $1, total_spent = $2, total_visits = $3,
		    loyalty_tier = $4, updated_at = $5
		WHERE id = $6`
	_, err := r.q.Exec(context.Background(), query,
		c.LoyaltyPoints, c.TotalSpent, c.TotalVisits, c.LoyaltyTier, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update customer loyalty: %w", err)
	}
	return nil
}

// EmployeeRepo directorio de empleados, solo lectura.
type EmployeeRepo struct {
	q Querier
}

func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	query := `SELECT id, business_id, full_name, active FROM employees WHERE id = $1 AND deleted = false`
	var e entity.Employee
	err := r.q.QueryRow(context.Background(), query, id).Scan(&e.ID, &e.BusinessID, &e.FullName, &e.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-core-api/internal/domain/entity"
	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var _ repository.AuditOutbox = (*AuditOutboxRepo)(nil)

// AuditOutboxRepo outbox de auditoría. Va siempre contra el pool, nunca dentro
// de la transacción de negocio: un fallo aquí no revierte la venta.
type AuditOutboxRepo struct {
	pool *pgxpool.Pool
}

func NewAuditOutbox(pool *pgxpool.Pool) *AuditOutboxRepo {
	return &AuditOutboxRepo{pool: pool}
}

func (r *AuditOutboxRepo) Record(event *entity.AuditEvent) error {
	query := `
		INSERT INTO audit_outbox (id, business_id, user_id, action, entity_type,
		                          entity_id, description, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(context.Background(), query,
		event.ID, event.BusinessID, event.UserID, event.Action, event.EntityType,
		event.EntityID, event.Description, nullIfEmpty(event.OldValue), nullIfEmpty(event.NewValue), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

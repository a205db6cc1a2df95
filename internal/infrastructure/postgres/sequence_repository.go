package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-core-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador de documentos por negocio/tipo/día. El upsert con
// RETURNING incrementa y lee en una sola sentencia, así dos ventas simultáneas
// nunca obtienen el mismo consecutivo.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Next(businessID, kind, day string) (int64, error) {
	query := `
		INSERT INTO document_sequences (business_id, kind, day, value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (business_id, kind, day)
		DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`
	var value int64
	err := r.q.QueryRow(context.Background(), query, businessID, kind, day).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s/%s: %w", kind, day, err)
	}
	return value, nil
}

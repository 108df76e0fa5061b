package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo sink de auditoría sobre PostgreSQL. Metadata se guarda como jsonb.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record inserta un registro de auditoría. La tabla es append-only.
func (r *AuditRepo) Record(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, organization_id, actor_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.OrganizationID, e.ActorID, e.Action, e.EntityType, e.EntityID, e.Metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

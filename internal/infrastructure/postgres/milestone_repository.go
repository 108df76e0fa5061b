package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.MilestoneRepository = (*MilestoneRepo)(nil)

// MilestoneRepo implementación de MilestoneRepository sobre PostgreSQL.
type MilestoneRepo struct {
	q Querier
}

// NewMilestoneRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMilestoneRepository(q Querier) *MilestoneRepo {
	return &MilestoneRepo{q: q}
}

// GetByID obtiene un hito por ID. Devuelve nil, nil si no existe.
func (r *MilestoneRepo) GetByID(ctx context.Context, id string) (*entity.Milestone, error) {
	query := `
		SELECT id, purchase_order_id, name, amount, status, due_date, certified_at, created_at, updated_at
		FROM milestones WHERE id = $1`
	var m entity.Milestone
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.PurchaseOrderID, &m.Name, &m.Amount, &m.Status, &m.DueDate, &m.CertifiedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return &m, nil
}

// ListByPurchaseOrder lista los hitos de una orden de compra en orden de creación.
func (r *MilestoneRepo) ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Milestone, error) {
	query := `
		SELECT id, purchase_order_id, name, amount, status, due_date, certified_at, created_at, updated_at
		FROM milestones WHERE purchase_order_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Milestone
	for rows.Next() {
		var m entity.Milestone
		if err := rows.Scan(&m.ID, &m.PurchaseOrderID, &m.Name, &m.Amount, &m.Status,
			&m.DueDate, &m.CertifiedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SetLocked marca o desmarca el bloqueo por NCR de un conjunto de hitos.
func (r *MilestoneRepo) SetLocked(ctx context.Context, milestoneIDs []string, locked bool) error {
	if len(milestoneIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE milestones SET locked_by_ncr = $2, updated_at = now() WHERE id = ANY($1)`,
		milestoneIDs, locked,
	)
	if err != nil {
		return fmt.Errorf("set milestones locked: %w", err)
	}
	return nil
}

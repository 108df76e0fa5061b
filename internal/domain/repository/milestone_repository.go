package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// MilestoneRepository define el puerto de lectura/bloqueo sobre hitos.
// El núcleo NCR no es dueño de Milestone: solo lee su estado de pago y
// marca/desmarca el bloqueo que impide certificar mientras haya NCRs abiertos.
type MilestoneRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Milestone, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Milestone, error)
	// SetLocked marca o desmarca el bloqueo por NCR de un conjunto de hitos.
	SetLocked(ctx context.Context, milestoneIDs []string, locked bool) error
}

package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// NCRFilter filtros de listado de NCRs.
type NCRFilter struct {
	ProjectID  string
	SupplierID string
	Status     string
	Severity   string
	Limit      int
	Offset     int
}

// NCRRepository define el puerto de persistencia para NCR.
type NCRRepository interface {
	// Create inserta el NCR. Debe devolver domain.ErrDuplicate si el par
	// (organization_id, ncr_number) ya existe (constraint único), para que el
	// caso de uso reintente con el siguiente consecutivo.
	Create(ctx context.Context, n *entity.NCR) error
	GetByID(ctx context.Context, id string) (*entity.NCR, error)
	List(ctx context.Context, organizationID string, f NCRFilter) ([]*entity.NCR, error)
	// CountByOrganization cuenta los NCRs existentes de la organización (consecutivo).
	CountByOrganization(ctx context.Context, organizationID string) (int, error)
	// Update persiste los campos mutables (status, cierre, nota crédito, locks).
	Update(ctx context.Context, n *entity.NCR) error
	// FindOpenByMilestone devuelve los NCRs abiertos (status != CLOSED) cuyo conjunto
	// de hitos bloqueados contiene milestoneID, excluyendo excludeNCRID.
	// Es el reverse-scan del lock manager: un hito solo se libera cuando
	// ningún otro NCR abierto lo referencia.
	FindOpenByMilestone(ctx context.Context, milestoneID, excludeNCRID string) ([]*entity.NCR, error)
}

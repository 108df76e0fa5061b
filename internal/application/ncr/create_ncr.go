package ncr

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	domainncr "github.com/tu-usuario/procura-pro/internal/domain/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// maxNumberRetries reintentos del consecutivo ante colisión del constraint único
// (organization_id, ncr_number) bajo creación concurrente. Cada intento corre en
// su propia transacción: Postgres aborta la transacción tras la violación.
const maxNumberRetries = 3

// CreateNCRUseCase reporta una no conformidad: consecutivo por organización,
// SLA por severidad, inspección del estado de pago (payment shield) y bloqueo
// de los hitos no pagados de la PO, todo en una transacción.
type CreateNCRUseCase struct {
	txRunner      TxRunner
	poRepo        repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	milestoneRepo repository.MilestoneRepository
	locks         *LockManager
	log           *logger.Logger
}

// NewCreateNCRUseCase construye el caso de uso.
func NewCreateNCRUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	milestoneRepo repository.MilestoneRepository,
	locks *LockManager,
	log *logger.Logger,
) *CreateNCRUseCase {
	return &CreateNCRUseCase{
		txRunner:      txRunner,
		poRepo:        poRepo,
		supplierRepo:  supplierRepo,
		milestoneRepo: milestoneRepo,
		locks:         locks,
		log:           log,
	}
}

// Create valida la entrada, fija número/SLA/payment-shield y persiste el NCR.
func (uc *CreateNCRUseCase) Create(
	ctx context.Context,
	organizationID, reporterID string,
	in dto.CreateNCRRequest,
) (*entity.NCR, error) {
	if !domainncr.IsValidSeverity(in.Severity) || !domainncr.IsValidIssueType(in.IssueType) {
		return nil, domain.ErrInvalidInput
	}
	if in.Title == "" || in.ProjectID == "" || in.PurchaseOrderID == "" || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}

	// La PO debe existir, ser de la organización y corresponder al proveedor reportado.
	po, err := uc.poRepo.GetByID(ctx, in.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	if po.SupplierID != in.SupplierID || po.ProjectID != in.ProjectID {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.BOQItemID != nil {
		item, err := uc.poRepo.GetBOQItem(ctx, *in.BOQItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.PurchaseOrderID != po.ID {
			return nil, domain.ErrInvalidInput
		}
	}

	// Inspección de pago: una sola vez, al crear. El flag queda inmutable.
	milestones, err := uc.milestoneRepo.ListByPurchaseOrder(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	requiresCreditNote := AnyMilestonePaid(milestones)
	toLock := LockableMilestones(milestones)

	now := time.Now()
	n := &entity.NCR{
		ID:                 uuid.New().String(),
		OrganizationID:     organizationID,
		ProjectID:          in.ProjectID,
		PurchaseOrderID:    po.ID,
		SupplierID:         in.SupplierID,
		BOQItemID:          in.BOQItemID,
		BatchID:            in.BatchID,
		Title:              in.Title,
		Description:        in.Description,
		Severity:           in.Severity,
		IssueType:          in.IssueType,
		Status:             entity.NCRStatusOpen,
		ReportedBy:         reporterID,
		ReportedAt:         now,
		SLADueAt:           domainncr.ResolutionDue(in.Severity, now),
		RequiresCreditNote: requiresCreditNote,
		MilestonesLocked:   toLock,
		SourceDocumentID:   in.SourceDocumentID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Consecutivo count-then-format endurecido: el constraint único
	// (organization_id, ncr_number) detecta la carrera. La violación deja la
	// transacción abortada en Postgres, así que cada reintento abre una
	// transacción nueva y recalcula el consecutivo.
	for attempt := 0; ; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			ncrRepo repository.NCRRepository,
			milestoneRepo repository.MilestoneRepository,
			auditRepo repository.AuditRepository,
		) error {
			count, err := ncrRepo.CountByOrganization(ctx, organizationID)
			if err != nil {
				return err
			}
			n.NCRNumber = domainncr.FormatNumber(count + 1 + attempt)
			if err := ncrRepo.Create(ctx, n); err != nil {
				return err
			}

			if err := uc.locks.Lock(ctx, milestoneRepo, toLock, n.ID); err != nil {
				return err
			}

			return auditRepo.Record(ctx, &entity.AuditLog{
				ID:             uuid.New().String(),
				OrganizationID: organizationID,
				ActorID:        reporterID,
				Action:         entity.AuditActionNCRCreated,
				EntityType:     "ncr",
				EntityID:       n.ID,
				Metadata: map[string]any{
					"ncr_number":           n.NCRNumber,
					"severity":             n.Severity,
					"requires_credit_note": n.RequiresCreditNote,
					"milestones_locked":    len(toLock),
				},
				CreatedAt: now,
			})
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt >= maxNumberRetries {
			return nil, err
		}
		uc.log.Warn().
			Str("ncr_number", n.NCRNumber).
			Str("organization_id", organizationID).
			Msg("colisión de consecutivo NCR, reintentando en transacción nueva")
	}

	uc.log.Info().
		Str("ncr_id", n.ID).
		Str("ncr_number", n.NCRNumber).
		Str("severity", n.Severity).
		Bool("requires_credit_note", n.RequiresCreditNote).
		Msg("NCR creado")
	return n, nil
}

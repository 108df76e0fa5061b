package ncr

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

// QueryUseCase lecturas de NCR para las vistas internas (detalle y listado).
type QueryUseCase struct {
	ncrRepo repository.NCRRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(ncrRepo repository.NCRRepository) *QueryUseCase {
	return &QueryUseCase{ncrRepo: ncrRepo}
}

// GetByID devuelve el NCR si pertenece a la organización.
func (uc *QueryUseCase) GetByID(ctx context.Context, organizationID, ncrID string) (*entity.NCR, error) {
	return getOwnedNCR(ctx, uc.ncrRepo, organizationID, ncrID)
}

// List devuelve los NCRs de la organización con los filtros dados.
func (uc *QueryUseCase) List(ctx context.Context, organizationID string, in dto.NCRListRequest) ([]*entity.NCR, error) {
	in.DefaultPage()
	return uc.ncrRepo.List(ctx, organizationID, repository.NCRFilter{
		ProjectID:  in.ProjectID,
		SupplierID: in.SupplierID,
		Status:     in.Status,
		Severity:   in.Severity,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
}

// ToNCRResponse mapea la entidad al DTO de respuesta.
func ToNCRResponse(n *entity.NCR) dto.NCRResponse {
	return dto.NCRResponse{
		ID:                   n.ID,
		NCRNumber:            n.NCRNumber,
		OrganizationID:       n.OrganizationID,
		ProjectID:            n.ProjectID,
		PurchaseOrderID:      n.PurchaseOrderID,
		SupplierID:           n.SupplierID,
		BOQItemID:            n.BOQItemID,
		BatchID:              n.BatchID,
		Title:                n.Title,
		Description:          n.Description,
		Severity:             n.Severity,
		IssueType:            n.IssueType,
		Status:               n.Status,
		ReportedBy:           n.ReportedBy,
		ReportedAt:           n.ReportedAt,
		SLADueAt:             n.SLADueAt,
		RequiresCreditNote:   n.RequiresCreditNote,
		MilestonesLocked:     n.MilestonesLocked,
		CreditNoteDocID:      n.CreditNoteDocID,
		CreditNoteVerifiedAt: n.CreditNoteVerifiedAt,
		ProofOfFixDocID:      n.ProofOfFixDocID,
		SourceDocumentID:     n.SourceDocumentID,
		ClosedBy:             n.ClosedBy,
		ClosedAt:             n.ClosedAt,
		ClosedReason:         n.ClosedReason,
		CreatedAt:            n.CreatedAt,
		UpdatedAt:            n.UpdatedAt,
	}
}

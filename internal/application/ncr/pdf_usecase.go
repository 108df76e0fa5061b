package ncr

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

// PDFUseCase genera el reporte PDF de un NCR (exportable desde el dashboard).
type PDFUseCase struct {
	ncrRepo      repository.NCRRepository
	supplierRepo repository.SupplierRepository
	poRepo       repository.PurchaseOrderRepository
	commentRepo  repository.CommentRepository
	generator    NCRPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	ncrRepo repository.NCRRepository,
	supplierRepo repository.SupplierRepository,
	poRepo repository.PurchaseOrderRepository,
	commentRepo repository.CommentRepository,
	generator NCRPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		ncrRepo:      ncrRepo,
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
		commentRepo:  commentRepo,
		generator:    generator,
	}
}

// GenerateNCRPDF arma el contexto del reporte y delega en el generador.
// El PDF usa solo el hilo no interno: el documento puede compartirse con el proveedor.
func (uc *PDFUseCase) GenerateNCRPDF(ctx context.Context, organizationID, ncrID string) ([]byte, error) {
	n, err := getOwnedNCR(ctx, uc.ncrRepo, organizationID, ncrID)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, n.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	po, err := uc.poRepo.GetByID(ctx, n.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	comments, err := uc.commentRepo.ListByNCR(ctx, n.ID, false)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateNCRPDF(ctx, n, supplier, po, comments)
}

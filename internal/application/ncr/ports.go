package ncr

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

// TxRunner ejecuta los casos de uso del ciclo de vida NCR dentro de una transacción.
// Las precondiciones de cierre, la escritura de estado y el lock/unlock de hitos
// forman una sola unidad atómica: un reopen concurrente entre chequeo y escritura
// no puede violar los invariantes.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ncrRepo repository.NCRRepository,
		milestoneRepo repository.MilestoneRepository,
		auditRepo repository.AuditRepository,
	) error) error

	// RunComment añade al ámbito transaccional los repos del hilo y de magic links
	// (validación de token + alta de comentario + auto-transición en una sola tx).
	RunComment(ctx context.Context, fn func(
		ncrRepo repository.NCRRepository,
		commentRepo repository.CommentRepository,
		linkRepo repository.MagicLinkRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// SupplierRespondedMail datos del correo "el proveedor respondió" (hacia el PM).
type SupplierRespondedMail struct {
	NCRNumber      string
	NCRTitle       string
	SupplierName   string
	CommentPreview string
	HasAttachments bool
	HasVoiceNote   bool
	DashboardURL   string
}

// CommentToSupplierMail datos del correo "hay un comentario nuevo" (hacia el proveedor).
type CommentToSupplierMail struct {
	NCRNumber      string
	NCRTitle       string
	AuthorRole     string
	CommentPreview string
	HasAttachments bool
	HasVoiceNote   bool
	RespondURL     string // magic link fresco de 72h
}

// Mailer puerto de correo saliente. La entrega es best-effort: el fallo de un
// envío jamás se propaga a la operación de comentario que lo originó.
type Mailer interface {
	SendSupplierResponded(ctx context.Context, to string, data SupplierRespondedMail) error
	SendCommentToSupplier(ctx context.Context, to string, data CommentToSupplierMail) error
}

// NCRPDFGenerator puerto del generador de reportes PDF de un NCR.
type NCRPDFGenerator interface {
	GenerateNCRPDF(
		ctx context.Context,
		n *entity.NCR,
		supplier *entity.Supplier,
		po *entity.PurchaseOrder,
		comments []*entity.Comment,
	) ([]byte, error)
}

// LinkConfig configuración de URLs públicas para magic links y deep links.
type LinkConfig struct {
	BaseURL      string
	DefaultHours int
}

// RespondURL construye la URL pública de respuesta de un magic link.
func (c LinkConfig) RespondURL(token string) string {
	return c.BaseURL + "/public/ncr/" + token
}

// DashboardURL construye el deep link interno de un NCR.
func (c LinkConfig) DashboardURL(ncrID string) string {
	return c.BaseURL + "/dashboard/ncrs/" + ncrID
}

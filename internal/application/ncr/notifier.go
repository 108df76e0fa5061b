package ncr

import (
	"context"
	"unicode/utf8"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// previewRunes longitud máxima del extracto del comentario en los correos.
const previewRunes = 160

// Notifier enruta las notificaciones de comentarios no internos:
//   - autor SUPPLIER  -> correo al reportero del NCR (PM) con deep link al dashboard.
//   - autor PM/QA/... -> correo al contacto del proveedor con un magic link fresco
//     de 72h para responder sin iniciar sesión.
//
// Todo fallo se registra y se traga: el alta del comentario nunca depende del correo.
type Notifier struct {
	mailer       Mailer
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	links        *MagicLinkUseCase
	linkCfg      LinkConfig
	log          *logger.Logger
}

// NewNotifier construye el dispatcher.
func NewNotifier(
	mailer Mailer,
	userRepo repository.UserRepository,
	supplierRepo repository.SupplierRepository,
	links *MagicLinkUseCase,
	linkCfg LinkConfig,
	log *logger.Logger,
) *Notifier {
	return &Notifier{
		mailer:       mailer,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		links:        links,
		linkCfg:      linkCfg,
		log:          log,
	}
}

// Dispatch decide la dirección de la notificación y la envía.
// Destinatario irresoluble es un no-op con warning, no un error del caller.
func (nt *Notifier) Dispatch(ctx context.Context, n *entity.NCR, c *entity.Comment) error {
	if c.IsInternal {
		return nil
	}
	if c.AuthorRole == entity.CommentRoleSupplier {
		return nt.notifyReporter(ctx, n, c)
	}
	return nt.notifySupplier(ctx, n, c)
}

// notifyReporter correo "el proveedor respondió" hacia quien reportó el NCR.
func (nt *Notifier) notifyReporter(ctx context.Context, n *entity.NCR, c *entity.Comment) error {
	reporter, err := nt.userRepo.GetByID(ctx, n.ReportedBy)
	if err != nil {
		return err
	}
	if reporter == nil || reporter.Email == "" {
		nt.log.Warn().Str("ncr_id", n.ID).Str("reporter_id", n.ReportedBy).
			Msg("notificación omitida: reportero sin email")
		return nil
	}
	supplierName := ""
	if s, err := nt.supplierRepo.GetByID(ctx, n.SupplierID); err == nil && s != nil {
		supplierName = s.Name
	}
	return nt.mailer.SendSupplierResponded(ctx, reporter.Email, SupplierRespondedMail{
		NCRNumber:      n.NCRNumber,
		NCRTitle:       n.Title,
		SupplierName:   supplierName,
		CommentPreview: preview(c.Content),
		HasAttachments: len(c.AttachmentURLs) > 0,
		HasVoiceNote:   c.VoiceNoteURL != nil && *c.VoiceNoteURL != "",
		DashboardURL:   nt.linkCfg.DashboardURL(n.ID),
	})
}

// notifySupplier correo "hay comentario nuevo" hacia el contacto del proveedor,
// con magic link fresco. Email: contacto del proveedor, o el de su cuenta enlazada.
func (nt *Notifier) notifySupplier(ctx context.Context, n *entity.NCR, c *entity.Comment) error {
	supplier, err := nt.supplierRepo.GetByID(ctx, n.SupplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		nt.log.Warn().Str("ncr_id", n.ID).Str("supplier_id", n.SupplierID).
			Msg("notificación omitida: proveedor no encontrado")
		return nil
	}
	email := supplier.ContactEmail
	if email == "" && supplier.LinkedUserID != nil {
		if u, err := nt.userRepo.GetByID(ctx, *supplier.LinkedUserID); err == nil && u != nil {
			email = u.Email
		}
	}
	if email == "" {
		nt.log.Warn().Str("ncr_id", n.ID).Str("supplier_id", supplier.ID).
			Msg("notificación omitida: proveedor sin email de contacto ni cuenta enlazada")
		return nil
	}

	link, err := nt.links.Create(ctx, n.OrganizationID, n.ID, n.SupplierID, 0)
	if err != nil {
		return err
	}
	return nt.mailer.SendCommentToSupplier(ctx, email, CommentToSupplierMail{
		NCRNumber:      n.NCRNumber,
		NCRTitle:       n.Title,
		AuthorRole:     c.AuthorRole,
		CommentPreview: preview(c.Content),
		HasAttachments: len(c.AttachmentURLs) > 0,
		HasVoiceNote:   c.VoiceNoteURL != nil && *c.VoiceNoteURL != "",
		RespondURL:     link.URL,
	})
}

// preview trunca el contenido a previewRunes runas para el cuerpo del correo.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewRunes]) + "…"
}

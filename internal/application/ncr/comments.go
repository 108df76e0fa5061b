package ncr

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// notifyTimeout tope del despacho de notificaciones tras confirmar el comentario.
const notifyTimeout = 10 * time.Second

// CommentUseCase gestiona el hilo append-only de un NCR: alta con autoría dual
// (usuario XOR magic link), auto-transición en la primera respuesta del
// proveedor y despacho de notificaciones desacoplado (fire-and-forget).
type CommentUseCase struct {
	txRunner    TxRunner
	ncrRepo     repository.NCRRepository
	commentRepo repository.CommentRepository
	notifier    *Notifier
	log         *logger.Logger
}

// NewCommentUseCase construye el caso de uso. notifier puede ser nil (sin notificaciones).
func NewCommentUseCase(
	txRunner TxRunner,
	ncrRepo repository.NCRRepository,
	commentRepo repository.CommentRepository,
	notifier *Notifier,
	log *logger.Logger,
) *CommentUseCase {
	return &CommentUseCase{
		txRunner:    txRunner,
		ncrRepo:     ncrRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		log:         log,
	}
}

// AddComment añade un comentario al hilo. organizationID vacío indica la ruta
// pública vía magic link (el alcance del token ya ata el acceso a un solo NCR).
//
// El fallo de la notificación posterior nunca falla la operación: el contrato
// visible es "su comentario quedó guardado".
func (uc *CommentUseCase) AddComment(
	ctx context.Context,
	organizationID string,
	author entity.Author,
	ncrID string,
	in dto.AddCommentRequest,
) (*entity.Comment, error) {
	if !author.IsValid() {
		return nil, domain.ErrMissingAuthor
	}

	now := time.Now()
	c := &entity.Comment{
		ID:             uuid.New().String(),
		NCRID:          ncrID,
		Author:         author,
		AuthorRole:     in.AuthorRole,
		IsInternal:     in.IsInternal,
		Content:        in.Content,
		AttachmentURLs: in.AttachmentURLs,
		VoiceNoteURL:   in.VoiceNoteURL,
		CreatedAt:      now,
	}
	if !c.HasContent() {
		return nil, domain.ErrEmptyContent
	}

	var ncrForNotify *entity.NCR
	err := uc.txRunner.RunComment(ctx, func(
		ncrRepo repository.NCRRepository,
		commentRepo repository.CommentRepository,
		linkRepo repository.MagicLinkRepository,
		auditRepo repository.AuditRepository,
	) error {
		n, err := ncrRepo.GetByID(ctx, ncrID)
		if err != nil {
			return err
		}
		if n == nil || (organizationID != "" && n.OrganizationID != organizationID) {
			return domain.ErrNotFound
		}

		actorID := c.Author.UserID
		if c.Author.Kind == entity.AuthorKindMagicLink {
			link, err := uc.authorizeToken(ctx, linkRepo, c.Author.Token, ncrID, now)
			if err != nil {
				return err
			}
			actorID = "magic-link:" + link.SupplierID
		}

		if err := commentRepo.Create(ctx, c); err != nil {
			return err
		}

		// Primera respuesta del proveedor: OPEN -> SUPPLIER_RESPONDED, una sola vez.
		if in.AuthorRole == entity.CommentRoleSupplier && n.Status == entity.NCRStatusOpen {
			n.Status = entity.NCRStatusSupplierResponded
			n.UpdatedAt = now
			if err := ncrRepo.Update(ctx, n); err != nil {
				return err
			}
			if err := auditRepo.Record(ctx, &entity.AuditLog{
				ID:             uuid.New().String(),
				OrganizationID: n.OrganizationID,
				ActorID:        actorID,
				Action:         entity.AuditActionNCRTransitioned,
				EntityType:     "ncr",
				EntityID:       n.ID,
				Metadata: map[string]any{
					"from": entity.NCRStatusOpen,
					"to":   entity.NCRStatusSupplierResponded,
					"auto": true,
				},
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		ncrForNotify = n
		return auditRepo.Record(ctx, &entity.AuditLog{
			ID:             uuid.New().String(),
			OrganizationID: n.OrganizationID,
			ActorID:        actorID,
			Action:         entity.AuditActionCommentAdded,
			EntityType:     "comment",
			EntityID:       c.ID,
			Metadata: map[string]any{
				"ncr_id":      ncrID,
				"author_role": in.AuthorRole,
				"is_internal": in.IsInternal,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	// Frontera asíncrona de diseño: la entrega de la notificación queda fuera
	// de la transacción del comentario y sus fallos solo se registran en el log.
	if !c.IsInternal && uc.notifier != nil {
		n := ncrForNotify
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := uc.notifier.Dispatch(nctx, n, c); err != nil {
				uc.log.Warn().Err(err).
					Str("ncr_id", n.ID).
					Str("comment_id", c.ID).
					Msg("fallo al despachar notificación de comentario")
			}
		}()
	}

	return c, nil
}

// authorizeToken valida el magic link dentro de la transacción del comentario:
// existencia, pertenencia al NCR y vigencia. Registra la acción (viewed_at en
// la primera vista, contadores siempre). Token inválido o vencido -> ErrUnauthorized.
func (uc *CommentUseCase) authorizeToken(
	ctx context.Context,
	linkRepo repository.MagicLinkRepository,
	token, ncrID string,
	now time.Time,
) (*entity.MagicLink, error) {
	link, err := linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil || link.NCRID != ncrID {
		return nil, domain.ErrUnauthorized
	}
	if link.IsExpired(now) {
		return nil, domain.ErrUnauthorized
	}
	if link.ViewedAt == nil {
		link.ViewedAt = &now
	}
	link.ActionsCount++
	link.LastActionAt = &now
	if err := linkRepo.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// GetThread devuelve el hilo del NCR, del más reciente al más antiguo.
// includeInternal=false es la frontera de confidencialidad hacia el proveedor:
// jamás deben salir comentarios internos por esa vista.
func (uc *CommentUseCase) GetThread(
	ctx context.Context,
	organizationID, ncrID string,
	includeInternal bool,
) ([]*entity.Comment, error) {
	n, err := uc.ncrRepo.GetByID(ctx, ncrID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return uc.commentRepo.ListByNCR(ctx, ncrID, includeInternal)
}

// ToCommentResponse mapea la entidad al DTO de respuesta.
func ToCommentResponse(c *entity.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:             c.ID,
		NCRID:          c.NCRID,
		AuthorKind:     c.Author.Kind,
		AuthorUserID:   c.Author.UserID,
		AuthorRole:     c.AuthorRole,
		IsInternal:     c.IsInternal,
		Content:        c.Content,
		AttachmentURLs: c.AttachmentURLs,
		VoiceNoteURL:   c.VoiceNoteURL,
		CreatedAt:      c.CreatedAt,
	}
}

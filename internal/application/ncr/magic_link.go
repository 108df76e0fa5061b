package ncr

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// tokenBytes entropía del token: 32 bytes (256 bits) de crypto/rand.
const tokenBytes = 32

// MagicLinkUseCase gestiona accesos temporales sin sesión para que el contacto
// de un proveedor vea y responda UN NCR. La expiración es la única terminación;
// la validación no consume el link.
type MagicLinkUseCase struct {
	linkRepo     repository.MagicLinkRepository
	ncrRepo      repository.NCRRepository
	supplierRepo repository.SupplierRepository
	commentRepo  repository.CommentRepository
	auditRepo    repository.AuditRepository
	linkCfg      LinkConfig
	log          *logger.Logger
}

// NewMagicLinkUseCase construye el caso de uso.
func NewMagicLinkUseCase(
	linkRepo repository.MagicLinkRepository,
	ncrRepo repository.NCRRepository,
	supplierRepo repository.SupplierRepository,
	commentRepo repository.CommentRepository,
	auditRepo repository.AuditRepository,
	linkCfg LinkConfig,
	log *logger.Logger,
) *MagicLinkUseCase {
	return &MagicLinkUseCase{
		linkRepo:     linkRepo,
		ncrRepo:      ncrRepo,
		supplierRepo: supplierRepo,
		commentRepo:  commentRepo,
		auditRepo:    auditRepo,
		linkCfg:      linkCfg,
		log:          log,
	}
}

// Create genera un magic link para el par (NCR, proveedor). expiresInHours <= 0
// usa la vigencia por defecto de configuración (72h).
func (uc *MagicLinkUseCase) Create(
	ctx context.Context,
	organizationID, ncrID, supplierID string,
	expiresInHours int,
) (*dto.MagicLinkResponse, error) {
	n, err := uc.ncrRepo.GetByID(ctx, ncrID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if n.SupplierID != supplierID {
		return nil, domain.ErrInvalidInput
	}

	if expiresInHours <= 0 {
		expiresInHours = uc.linkCfg.DefaultHours
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	link := &entity.MagicLink{
		ID:         uuid.New().String(),
		NCRID:      ncrID,
		SupplierID: supplierID,
		Token:      token,
		ExpiresAt:  now.Add(time.Duration(expiresInHours) * time.Hour),
		CreatedAt:  now,
	}
	if err := uc.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.Record(ctx, &entity.AuditLog{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ActorID:        "system",
		Action:         entity.AuditActionMagicLinkCreated,
		EntityType:     "magic_link",
		EntityID:       link.ID,
		Metadata:       map[string]any{"ncr_id": ncrID, "supplier_id": supplierID, "expires_at": link.ExpiresAt},
		CreatedAt:      now,
	}); err != nil {
		// La auditoría del alta de link es best-effort: el link ya existe.
		uc.log.Warn().Err(err).Str("link_id", link.ID).Msg("no se pudo auditar creación de magic link")
	}

	return &dto.MagicLinkResponse{
		Token:     token,
		URL:       uc.linkCfg.RespondURL(token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// Resolve devuelve el link del token si existe y no expiró, sin tocar sus
// contadores (la ruta pública lo usa para saber a qué NCR apunta el token;
// la operación posterior es la que registra la acción).
func (uc *MagicLinkUseCase) Resolve(ctx context.Context, token string) (*entity.MagicLink, error) {
	link, err := uc.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrInvalidLink
	}
	if link.IsExpired(time.Now()) {
		return nil, domain.ErrLinkExpired
	}
	return link, nil
}

// Validate verifica que el token exista para ese NCR y no haya expirado.
// La primera validación exitosa fija ViewedAt (+auditoría); las siguientes no lo tocan.
// No consume ni extiende el link.
func (uc *MagicLinkUseCase) Validate(ctx context.Context, token, ncrID string) (*entity.MagicLink, error) {
	link, err := uc.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil || link.NCRID != ncrID {
		return nil, domain.ErrInvalidLink
	}
	if link.IsExpired(time.Now()) {
		return nil, domain.ErrLinkExpired
	}
	if link.ViewedAt == nil {
		now := time.Now()
		link.ViewedAt = &now
		if err := uc.linkRepo.Update(ctx, link); err != nil {
			return nil, err
		}
		n, err := uc.ncrRepo.GetByID(ctx, link.NCRID)
		if err != nil {
			uc.log.Warn().Err(err).Str("link_id", link.ID).
				Msg("no se pudo resolver la organización del NCR para auditar la vista")
		}
		orgID := ""
		if n != nil {
			orgID = n.OrganizationID
		}
		if err := uc.auditRepo.Record(ctx, &entity.AuditLog{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ActorID:        "magic-link:" + link.SupplierID,
			Action:         entity.AuditActionMagicLinkViewed,
			EntityType:     "magic_link",
			EntityID:       link.ID,
			Metadata:       map[string]any{"ncr_id": link.NCRID},
			CreatedAt:      now,
		}); err != nil {
			uc.log.Warn().Err(err).Str("link_id", link.ID).Msg("no se pudo auditar primera vista de magic link")
		}
	}
	return link, nil
}

// RecordAction incrementa los contadores de uso del link en cada acción
// autenticada (ej. publicar un comentario). Solo auditoría; no afecta la validez.
func (uc *MagicLinkUseCase) RecordAction(ctx context.Context, token string) error {
	link, err := uc.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrInvalidLink
	}
	now := time.Now()
	link.ActionsCount++
	link.LastActionAt = &now
	return uc.linkRepo.Update(ctx, link)
}

// GetNCRView devuelve la proyección segura del NCR para el portador del token:
// sin comentarios internos ni campos financieros internos.
func (uc *MagicLinkUseCase) GetNCRView(ctx context.Context, token string) (*dto.PublicNCRView, error) {
	link, err := uc.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrInvalidLink
	}
	if _, err := uc.Validate(ctx, token, link.NCRID); err != nil {
		return nil, err
	}
	n, err := uc.ncrRepo.GetByID(ctx, link.NCRID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrInvalidLink
	}
	comments, err := uc.commentRepo.ListByNCR(ctx, n.ID, false)
	if err != nil {
		return nil, err
	}

	view := &dto.PublicNCRView{
		NCRNumber:   n.NCRNumber,
		Title:       n.Title,
		Description: n.Description,
		Severity:    n.Severity,
		IssueType:   n.IssueType,
		Status:      n.Status,
		ReportedAt:  n.ReportedAt,
		SLADueAt:    n.SLADueAt,
		Comments:    make([]dto.CommentResponse, 0, len(comments)),
	}
	for _, c := range comments {
		view.Comments = append(view.Comments, ToCommentResponse(c))
	}
	return view, nil
}

// newToken genera el token aleatorio del link (hex de 32 bytes de crypto/rand).
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// PublicHandler atiende el portal de proveedor vía magic link: sin sesión,
// autenticado solo por el token de la URL. Nunca devuelve datos internos.
type PublicHandler struct {
	linkUC    *ncr.MagicLinkUseCase
	commentUC *ncr.CommentUseCase
}

// NewPublicHandler construye el handler público.
func NewPublicHandler(linkUC *ncr.MagicLinkUseCase, commentUC *ncr.CommentUseCase) *PublicHandler {
	return &PublicHandler{linkUC: linkUC, commentUC: commentUC}
}

// GetNCRView godoc
// @Summary      Vista de proveedor de un NCR (vía magic link)
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Magic link token"
// @Success      200   {object}  dto.PublicNCRView
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /public/ncr/{token} [get]
func (h *PublicHandler) GetNCRView(c *fiber.Ctx) error {
	view, err := h.linkUC.GetNCRView(c.Context(), c.Params("token"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(view)
}

// AddComment godoc
// @Summary      Respuesta del proveedor en su NCR (vía magic link)
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        token  path  string                    true  "Magic link token"
// @Param        body   body  dto.PublicCommentRequest  true  "content, attachment_urls, voice_note_url"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /public/ncr/{token}/comments [post]
func (h *PublicHandler) AddComment(c *fiber.Ctx) error {
	token := c.Params("token")

	// Resolver el NCR del token antes de delegar: el alcance del link es un solo NCR.
	link, err := h.linkUC.Resolve(c.Context(), token)
	if err != nil {
		return h.mapError(c, err)
	}

	var in dto.PublicCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// El portador del link siempre comenta como SUPPLIER y nunca de forma interna.
	comment, err := h.commentUC.AddComment(c.Context(), "", entity.MagicLinkAuthor(token), link.NCRID, dto.AddCommentRequest{
		Content:        in.Content,
		AttachmentURLs: in.AttachmentURLs,
		VoiceNoteURL:   in.VoiceNoteURL,
		AuthorRole:     entity.CommentRoleSupplier,
		IsInternal:     false,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ncr.ToCommentResponse(comment))
}

func (h *PublicHandler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidLink, domain.ErrNotFound, domain.ErrUnauthorized:
		// Token desconocido y token revocado se responden igual: sin pistas.
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "INVALID_LINK", Message: "enlace inválido"})
	case domain.ErrLinkExpired:
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "LINK_EXPIRED", Message: "el enlace expiró; solicite uno nuevo"})
	case domain.ErrEmptyContent:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CONTENT", Message: "el comentario necesita texto, adjuntos o nota de voz"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

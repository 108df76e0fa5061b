package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// CommentHandler maneja el hilo de comunicación de un NCR (rutas autenticadas).
type CommentHandler struct {
	uc *ncr.CommentUseCase
}

// NewCommentHandler construye el handler.
func NewCommentHandler(uc *ncr.CommentUseCase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

// Add godoc
// @Summary      Comentar en un NCR
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "NCR ID"
// @Param        body  body  dto.AddCommentRequest  true  "content, attachment_urls, voice_note_url, author_role, is_internal"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/comments [post]
func (h *CommentHandler) Add(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	comment, err := h.uc.AddComment(c.Context(), organizationID, entity.UserAuthor(userID), c.Params("id"), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ncr.ToCommentResponse(comment))
}

// GetThread godoc
// @Summary      Hilo completo de un NCR (incluye comentarios internos)
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "NCR ID"
// @Success      200  {array}  dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/comments [get]
func (h *CommentHandler) GetThread(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	comments, err := h.uc.GetThread(c.Context(), organizationID, c.Params("id"), true)
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, ncr.ToCommentResponse(cm))
	}
	return c.JSON(fiber.Map{"total": len(out), "comments": out})
}

func (h *CommentHandler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "NCR no encontrado"})
	case domain.ErrEmptyContent:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CONTENT", Message: "el comentario necesita texto, adjuntos o nota de voz"})
	case domain.ErrMissingAuthor:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_AUTHOR", Message: "autor inválido"})
	case domain.ErrUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

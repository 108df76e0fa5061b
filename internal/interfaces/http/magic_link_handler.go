package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain"
)

// MagicLinkHandler crea accesos temporales de proveedor (ruta protegida).
type MagicLinkHandler struct {
	uc *ncr.MagicLinkUseCase
}

// NewMagicLinkHandler construye el handler.
func NewMagicLinkHandler(uc *ncr.MagicLinkUseCase) *MagicLinkHandler {
	return &MagicLinkHandler{uc: uc}
}

// Create godoc
// @Summary      Generar magic link de respuesta para el proveedor de un NCR
// @Tags         magic-links
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "NCR ID"
// @Param        body  body  dto.CreateMagicLinkRequest  true  "supplier_id, expires_in_hours (opcional, default 72)"
// @Success      201   {object}  dto.MagicLinkResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/magic-links [post]
func (h *MagicLinkHandler) Create(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMagicLinkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	link, err := h.uc.Create(c.Context(), organizationID, c.Params("id"), in.SupplierID, in.ExpiresInHours)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "NCR no encontrado o proveedor no corresponde"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

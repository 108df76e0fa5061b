package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain"
)

// NCRHandler maneja el ciclo de vida HTTP de los NCR (protegido).
type NCRHandler struct {
	createUC    *ncr.CreateNCRUseCase
	lifecycleUC *ncr.LifecycleUseCase
	queryUC     *ncr.QueryUseCase
	pdfUC       *ncr.PDFUseCase
}

// NewNCRHandler construye el handler.
func NewNCRHandler(
	createUC *ncr.CreateNCRUseCase,
	lifecycleUC *ncr.LifecycleUseCase,
	queryUC *ncr.QueryUseCase,
	pdfUC *ncr.PDFUseCase,
) *NCRHandler {
	return &NCRHandler{createUC: createUC, lifecycleUC: lifecycleUC, queryUC: queryUC, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Reportar una no conformidad
// @Tags         ncrs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNCRRequest  true  "project_id, purchase_order_id, supplier_id, title, severity, issue_type"
// @Success      201   {object}  dto.NCRResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ncrs [post]
func (h *NCRHandler) Create(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateNCRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	n, err := h.createUC.Create(c.Context(), organizationID, userID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ncr.ToNCRResponse(n))
}

// List godoc
// @Summary      Listar NCRs de la organización
// @Tags         ncrs
// @Security     Bearer
// @Produce      json
// @Param        project_id   query  string  false  "Filtrar por proyecto"
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Param        status       query  string  false  "Filtrar por estado"
// @Param        severity     query  string  false  "Filtrar por severidad"
// @Success      200  {array}  dto.NCRResponse
// @Router       /api/ncrs [get]
func (h *NCRHandler) List(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.NCRListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.queryUC.List(c.Context(), organizationID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.NCRResponse, 0, len(list))
	for _, n := range list {
		out = append(out, ncr.ToNCRResponse(n))
	}
	return c.JSON(fiber.Map{"total": len(out), "ncrs": out})
}

// GetByID godoc
// @Summary      Detalle de un NCR
// @Tags         ncrs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "NCR ID"
// @Success      200  {object}  dto.NCRResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id} [get]
func (h *NCRHandler) GetByID(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	n, err := h.queryUC.GetByID(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ncr.ToNCRResponse(n))
}

// Transition godoc
// @Summary      Transición de estado de un NCR
// @Tags         ncrs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "NCR ID"
// @Param        body  body  dto.TransitionRequest  true  "new_status, reason"
// @Success      200   {object}  dto.NCRResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/transition [post]
func (h *NCRHandler) Transition(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	n, err := h.lifecycleUC.Transition(c.Context(), organizationID, c.Params("id"), in.NewStatus, userID, in.Reason)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ncr.ToNCRResponse(n))
}

// Close godoc
// @Summary      Cerrar un NCR (valida evidencia y nota crédito)
// @Tags         ncrs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "NCR ID"
// @Param        body  body  dto.CloseNCRRequest  true  "closed_reason, proof_of_fix_doc_id, credit_note_doc_id"
// @Success      200   {object}  dto.NCRResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/close [post]
func (h *NCRHandler) Close(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CloseNCRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	n, err := h.lifecycleUC.Close(c.Context(), organizationID, c.Params("id"), userID, in.ClosedReason, in.ProofOfFixDocID, in.CreditNoteDocID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ncr.ToNCRResponse(n))
}

// Reopen godoc
// @Summary      Reabrir un NCR cerrado (vuelve a bloquear los hitos)
// @Tags         ncrs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "NCR ID"
// @Param        body  body  dto.ReopenNCRRequest  true  "reason"
// @Success      200   {object}  dto.NCRResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/reopen [post]
func (h *NCRHandler) Reopen(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	userID := GetUserID(c)
	if organizationID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReopenNCRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	n, err := h.lifecycleUC.Reopen(c.Context(), organizationID, c.Params("id"), userID, in.Reason)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ncr.ToNCRResponse(n))
}

// DownloadPDF godoc
// @Summary      Reporte PDF imprimible de un NCR
// @Tags         ncrs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "NCR ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ncrs/{id}/pdf [get]
func (h *NCRHandler) DownloadPDF(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, err := h.pdfUC.GenerateNCRPDF(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="ncr-report.pdf"`)
	return c.Send(pdfBytes)
}

// mapError traduce los errores de dominio del ciclo de vida NCR a HTTP.
func (h *NCRHandler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrInvalidTransition:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
	case domain.ErrInvalidState:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el estado actual no permite la operación"})
	case domain.ErrEvidenceRequired:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EVIDENCE_REQUIRED", Message: "severidad MAJOR/CRITICAL exige evidencia de corrección para cerrar"})
	case domain.ErrCreditNoteRequired:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CREDIT_NOTE_REQUIRED", Message: "hay hitos pagados: el cierre exige nota crédito"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/analytics"
	"github.com/tu-usuario/procura-pro/internal/application/dto"
)

// DashboardHandler expone los KPIs de calidad (protegido, solo lectura).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// QualityKPIs godoc
// @Summary      KPIs de calidad (NCRs por estado/severidad, tasa por 100 POs)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        project_id  query  string  false  "Filtrar por proyecto"
// @Param        date_from   query  string  false  "YYYY-MM-DD"
// @Param        date_to     query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.QualityKPIsDTO
// @Router       /api/dashboard/quality [get]
func (h *DashboardHandler) QualityKPIs(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.QualityKPIsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	kpis, err := h.uc.GetQualityKPIs(c.Context(), organizationID, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(kpis)
}

// SupplierNCRCounts godoc
// @Summary      Ranking de proveedores por NCRs abiertos, con exposición financiera
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        top  query  int  false  "Número de proveedores (default 10, max 50)"
// @Success      200  {array}  dto.SupplierNCRCountDTO
// @Router       /api/dashboard/suppliers [get]
func (h *DashboardHandler) SupplierNCRCounts(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	top := c.QueryInt("top", 0)
	rows, err := h.uc.GetSupplierNCRCounts(c.Context(), organizationID, top)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "suppliers": rows})
}

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

const (
	defaultTopSuppliers = 10
	maxTopSuppliers     = 50
)

// DashboardUseCase KPIs de calidad para el dashboard: conteos de NCR por estado
// y severidad, tasa de NCRs por cada 100 POs y ranking de proveedores por NCRs
// abiertos. Solo lectura; no toca el núcleo transaccional.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetQualityKPIs devuelve los KPIs de calidad del período.
func (uc *DashboardUseCase) GetQualityKPIs(
	ctx context.Context,
	organizationID string,
	in dto.QualityKPIsRequest,
) (*dto.QualityKPIsDTO, error) {
	filter, err := parseFilter(in)
	if err != nil {
		return nil, err
	}

	kpis, err := uc.analyticsRepo.GetQualityKPIs(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}
	severities, err := uc.analyticsRepo.GetSeverityBreakdown(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}

	// ncrRate: NCRs por cada 100 órdenes de compra del período.
	var rate float64
	if kpis.TotalPOs > 0 {
		rate = float64(kpis.TotalNCRs) / float64(kpis.TotalPOs) * 100
	}

	out := &dto.QualityKPIsDTO{
		TotalNCRs:    kpis.TotalNCRs,
		OpenNCRs:     kpis.OpenNCRs,
		ClosedNCRs:   kpis.ClosedNCRs,
		CriticalNCRs: kpis.CriticalNCRs,
		OverdueNCRs:  kpis.OverdueNCRs,
		NCRRate:      rate,
		BySeverity:   make([]dto.SeverityCountDTO, 0, len(severities)),
	}
	for _, s := range severities {
		out.BySeverity = append(out.BySeverity, dto.SeverityCountDTO{Severity: s.Severity, Count: s.Count})
	}
	return out, nil
}

// GetSupplierNCRCounts devuelve el top de proveedores por NCRs abiertos,
// con su exposición (valor total de sus POs).
func (uc *DashboardUseCase) GetSupplierNCRCounts(
	ctx context.Context,
	organizationID string,
	topN int,
) ([]dto.SupplierNCRCountDTO, error) {
	if topN <= 0 {
		topN = defaultTopSuppliers
	}
	if topN > maxTopSuppliers {
		topN = maxTopSuppliers
	}
	rows, err := uc.analyticsRepo.GetSupplierNCRCounts(ctx, organizationID, topN)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierNCRCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SupplierNCRCountDTO{
			SupplierID:   r.SupplierID,
			SupplierName: r.SupplierName,
			OpenNCRs:     r.OpenNCRs,
			TotalNCRs:    r.TotalNCRs,
			Exposure:     r.Exposure.StringFixed(2),
		})
	}
	return out, nil
}

// parseFilter interpreta las fechas YYYY-MM-DD del request.
func parseFilter(in dto.QualityKPIsRequest) (repository.KPIFilter, error) {
	f := repository.KPIFilter{ProjectID: in.ProjectID}
	if in.DateFrom != "" {
		t, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return f, fmt.Errorf("date_from inválido: %w", err)
		}
		f.DateFrom = &t
	}
	if in.DateTo != "" {
		t, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return f, fmt.Errorf("date_to inválido: %w", err)
		}
		// Inclusivo: el filtro cubre hasta el final del día.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}
	return f, nil
}

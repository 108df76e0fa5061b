package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// KPIFilter acota las consultas de dashboard por proyecto y rango de fechas.
type KPIFilter struct {
	ProjectID string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// QualityKPIResult agregados de calidad (NCRs) de una organización.
type QualityKPIResult struct {
	TotalNCRs    int
	OpenNCRs     int
	ClosedNCRs   int
	CriticalNCRs int
	OverdueNCRs  int // abiertos con sla_due_at vencido
	TotalPOs     int // denominador de ncrRate
}

// SeverityCount NCRs por severidad.
type SeverityCount struct {
	Severity string
	Count    int
}

// SupplierNCRCount NCRs por proveedor, con exposición (valor total de sus POs).
type SupplierNCRCount struct {
	SupplierID   string
	SupplierName string
	OpenNCRs     int
	TotalNCRs    int
	Exposure     decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para dashboards de calidad.
type AnalyticsRepository interface {
	GetQualityKPIs(ctx context.Context, organizationID string, f KPIFilter) (*QualityKPIResult, error)
	GetSeverityBreakdown(ctx context.Context, organizationID string, f KPIFilter) ([]SeverityCount, error)
	GetSupplierNCRCounts(ctx context.Context, organizationID string, limit int) ([]SupplierNCRCount, error)
}

package dto

// QualityKPIsRequest filtros del dashboard de calidad.
type QualityKPIsRequest struct {
	ProjectID string `query:"project_id"`
	DateFrom  string `query:"date_from"` // YYYY-MM-DD
	DateTo    string `query:"date_to"`   // YYYY-MM-DD
}

// QualityKPIsDTO KPIs de calidad del dashboard (claves camelCase para el frontend).
type QualityKPIsDTO struct {
	TotalNCRs    int                  `json:"totalNCRs"`
	OpenNCRs     int                  `json:"openNCRs"`
	ClosedNCRs   int                  `json:"closedNCRs"`
	CriticalNCRs int                  `json:"criticalNCRs"`
	OverdueNCRs  int                  `json:"overdueNCRs"`
	NCRRate      float64              `json:"ncrRate"` // NCRs por cada 100 POs
	BySeverity   []SeverityCountDTO   `json:"bySeverity"`
}

// SeverityCountDTO conteo por severidad.
type SeverityCountDTO struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// SupplierNCRCountDTO NCRs por proveedor con exposición financiera.
type SupplierNCRCountDTO struct {
	SupplierID   string `json:"supplierId"`
	SupplierName string `json:"supplierName"`
	OpenNCRs     int    `json:"openNCRs"`
	TotalNCRs    int    `json:"totalNCRs"`
	Exposure     string `json:"exposure"` // decimal como string, sin pérdida
}

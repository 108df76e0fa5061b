package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para los dashboards de calidad.
// Corre siempre contra el pool: la analítica no participa en transacciones.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetQualityKPIs agrega los conteos de NCR del período más el total de POs
// (denominador de la tasa NCRs/100 POs). "Vencido" = abierto con sla_due_at pasado.
func (r *AnalyticsRepo) GetQualityKPIs(
	ctx context.Context,
	organizationID string,
	f repository.KPIFilter,
) (*repository.QualityKPIResult, error) {
	query := `
	SELECT
	    COUNT(*)                                                             AS total_ncrs,
	    COUNT(*) FILTER (WHERE n.status != 'CLOSED')                         AS open_ncrs,
	    COUNT(*) FILTER (WHERE n.status  = 'CLOSED')                         AS closed_ncrs,
	    COUNT(*) FILTER (WHERE n.severity = 'CRITICAL')                      AS critical_ncrs,
	    COUNT(*) FILTER (WHERE n.status != 'CLOSED' AND n.sla_due_at < now()) AS overdue_ncrs
	FROM ncrs n
	WHERE n.organization_id = $1`
	args := []any{organizationID}
	query, args = applyKPIFilter(query, args, f, "n.project_id", "n.reported_at")

	var res repository.QualityKPIResult
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&res.TotalNCRs, &res.OpenNCRs, &res.ClosedNCRs, &res.CriticalNCRs, &res.OverdueNCRs,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetQualityKPIs: %w", err)
	}

	poQuery := `SELECT COUNT(*) FROM purchase_orders po WHERE po.organization_id = $1 AND po.status != 'DRAFT'`
	poArgs := []any{organizationID}
	poQuery, poArgs = applyKPIFilter(poQuery, poArgs, f, "po.project_id", "po.created_at")
	if err := r.pool.QueryRow(ctx, poQuery, poArgs...).Scan(&res.TotalPOs); err != nil {
		return nil, fmt.Errorf("analytics.GetQualityKPIs pos: %w", err)
	}
	return &res, nil
}

// GetSeverityBreakdown agrupa los NCRs del período por severidad.
func (r *AnalyticsRepo) GetSeverityBreakdown(
	ctx context.Context,
	organizationID string,
	f repository.KPIFilter,
) ([]repository.SeverityCount, error) {
	query := `
	SELECT n.severity, COUNT(*)
	FROM ncrs n
	WHERE n.organization_id = $1`
	args := []any{organizationID}
	query, args = applyKPIFilter(query, args, f, "n.project_id", "n.reported_at")
	query += ` GROUP BY n.severity ORDER BY COUNT(*) DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSeverityBreakdown: %w", err)
	}
	defer rows.Close()

	var results []repository.SeverityCount
	for rows.Next() {
		var row repository.SeverityCount
		if err := rows.Scan(&row.Severity, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.GetSeverityBreakdown scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSupplierNCRCounts devuelve el top de proveedores por NCRs abiertos.
// La exposición es el valor total de las POs no-borrador del proveedor.
func (r *AnalyticsRepo) GetSupplierNCRCounts(
	ctx context.Context,
	organizationID string,
	limit int,
) ([]repository.SupplierNCRCount, error) {
	const query = `
	SELECT
	    s.id                                                  AS supplier_id,
	    s.name                                                AS supplier_name,
	    COUNT(n.id) FILTER (WHERE n.status != 'CLOSED')       AS open_ncrs,
	    COUNT(n.id)                                           AS total_ncrs,
	    COALESCE((
	        SELECT SUM(po.total_value)
	        FROM purchase_orders po
	        WHERE po.supplier_id = s.id AND po.status != 'DRAFT'
	    ), 0)                                                 AS exposure
	FROM suppliers s
	JOIN ncrs n ON n.supplier_id = s.id
	WHERE s.organization_id = $1
	GROUP BY s.id, s.name
	ORDER BY open_ncrs DESC, total_ncrs DESC
	LIMIT $2`

	rows, err := r.pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSupplierNCRCounts: %w", err)
	}
	defer rows.Close()

	var results []repository.SupplierNCRCount
	for rows.Next() {
		var row repository.SupplierNCRCount
		if err := rows.Scan(&row.SupplierID, &row.SupplierName, &row.OpenNCRs, &row.TotalNCRs, &row.Exposure); err != nil {
			return nil, fmt.Errorf("analytics.GetSupplierNCRCounts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// applyKPIFilter añade los predicados opcionales de proyecto y rango de fechas.
func applyKPIFilter(query string, args []any, f repository.KPIFilter, projectCol, dateCol string) (string, []any) {
	if f.ProjectID != "" {
		args = append(args, f.ProjectID)
		query += fmt.Sprintf(" AND %s = $%d", projectCol, len(args))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		query += fmt.Sprintf(" AND %s >= $%d", dateCol, len(args))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		query += fmt.Sprintf(" AND %s <= $%d", dateCol, len(args))
	}
	return query, args
}

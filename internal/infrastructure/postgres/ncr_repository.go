package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.NCRRepository = (*NCRRepo)(nil)

const ncrColumns = `id, organization_id, project_id, purchase_order_id, supplier_id, boq_item_id, batch_id,
	ncr_number, title, description, severity, issue_type, status,
	reported_by, reported_at, sla_due_at,
	requires_credit_note, milestones_locked, credit_note_doc_id, credit_note_verified_at,
	proof_of_fix_doc_id, source_document_id,
	closed_by, closed_at, closed_reason, created_at, updated_at`

// NCRRepo implementación del puerto NCRRepository sobre PostgreSQL (usable con pool o tx).
type NCRRepo struct {
	q Querier
}

// NewNCRRepository construye el adaptador de persistencia para NCRs. Pasar pool o tx (Querier).
func NewNCRRepository(q Querier) *NCRRepo {
	return &NCRRepo{q: q}
}

// Create persiste un NCR nuevo. El constraint único (organization_id, ncr_number)
// se traduce a domain.ErrDuplicate para que el caso de uso reintente el consecutivo.
func (r *NCRRepo) Create(ctx context.Context, n *entity.NCR) error {
	query := `
		INSERT INTO ncrs (` + ncrColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.OrganizationID, n.ProjectID, n.PurchaseOrderID, n.SupplierID, n.BOQItemID, n.BatchID,
		n.NCRNumber, n.Title, n.Description, n.Severity, n.IssueType, n.Status,
		n.ReportedBy, n.ReportedAt, n.SLADueAt,
		n.RequiresCreditNote, n.MilestonesLocked, n.CreditNoteDocID, n.CreditNoteVerifiedAt,
		n.ProofOfFixDocID, n.SourceDocumentID,
		n.ClosedBy, n.ClosedAt, n.ClosedReason, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ncr: %w", err)
	}
	return nil
}

// GetByID obtiene un NCR por ID. Devuelve nil, nil si no existe.
func (r *NCRRepo) GetByID(ctx context.Context, id string) (*entity.NCR, error) {
	query := `SELECT ` + ncrColumns + ` FROM ncrs WHERE id = $1`
	n, err := scanNCR(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ncr: %w", err)
	}
	return n, nil
}

// List lista NCRs de la organización con filtros opcionales, del más reciente al más antiguo.
func (r *NCRRepo) List(ctx context.Context, organizationID string, f repository.NCRFilter) ([]*entity.NCR, error) {
	query := `SELECT ` + ncrColumns + ` FROM ncrs WHERE organization_id = $1`
	args := []any{organizationID}
	if f.ProjectID != "" {
		args = append(args, f.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		query += fmt.Sprintf(" AND supplier_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Severity != "" {
		args = append(args, f.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY reported_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ncrs: %w", err)
	}
	defer rows.Close()
	var list []*entity.NCR
	for rows.Next() {
		n, err := scanNCR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ncr: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// CountByOrganization cuenta los NCRs de la organización (base del consecutivo NCR-0001).
func (r *NCRRepo) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM ncrs WHERE organization_id = $1`, organizationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ncrs: %w", err)
	}
	return count, nil
}

// Update persiste los campos mutables del NCR. requires_credit_note y reported_*
// quedan fuera a propósito: son inmutables tras la creación.
func (r *NCRRepo) Update(ctx context.Context, n *entity.NCR) error {
	query := `
		UPDATE ncrs SET
			status = $2, milestones_locked = $3,
			credit_note_doc_id = $4, credit_note_verified_at = $5,
			proof_of_fix_doc_id = $6, source_document_id = $7,
			closed_by = $8, closed_at = $9, closed_reason = $10,
			updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		n.ID, n.Status, n.MilestonesLocked,
		n.CreditNoteDocID, n.CreditNoteVerifiedAt,
		n.ProofOfFixDocID, n.SourceDocumentID,
		n.ClosedBy, n.ClosedAt, n.ClosedReason,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ncr: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindOpenByMilestone devuelve los NCRs abiertos que aún bloquean milestoneID,
// excluyendo excludeNCRID (reverse-scan del lock manager).
func (r *NCRRepo) FindOpenByMilestone(ctx context.Context, milestoneID, excludeNCRID string) ([]*entity.NCR, error) {
	query := `SELECT ` + ncrColumns + `
		FROM ncrs
		WHERE status != 'CLOSED' AND id != $2 AND $1 = ANY(milestones_locked)`
	rows, err := r.q.Query(ctx, query, milestoneID, excludeNCRID)
	if err != nil {
		return nil, fmt.Errorf("find ncrs by milestone: %w", err)
	}
	defer rows.Close()
	var list []*entity.NCR
	for rows.Next() {
		n, err := scanNCR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ncr: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// scanNCR escanea una fila de ncrs (pgx.Row o pgx.Rows comparten Scan).
func scanNCR(row pgx.Row) (*entity.NCR, error) {
	var n entity.NCR
	err := row.Scan(
		&n.ID, &n.OrganizationID, &n.ProjectID, &n.PurchaseOrderID, &n.SupplierID, &n.BOQItemID, &n.BatchID,
		&n.NCRNumber, &n.Title, &n.Description, &n.Severity, &n.IssueType, &n.Status,
		&n.ReportedBy, &n.ReportedAt, &n.SLADueAt,
		&n.RequiresCreditNote, &n.MilestonesLocked, &n.CreditNoteDocID, &n.CreditNoteVerifiedAt,
		&n.ProofOfFixDocID, &n.SourceDocumentID,
		&n.ClosedBy, &n.ClosedAt, &n.ClosedReason, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

package dto

import "time"

// CreateNCRRequest datos para reportar una no conformidad.
type CreateNCRRequest struct {
	ProjectID        string  `json:"project_id" validate:"required"`
	PurchaseOrderID  string  `json:"purchase_order_id" validate:"required"`
	SupplierID       string  `json:"supplier_id" validate:"required"`
	Title            string  `json:"title" validate:"required,max=200"`
	Description      string  `json:"description"`
	Severity         string  `json:"severity" validate:"required,oneof=MINOR MAJOR CRITICAL"`
	IssueType        string  `json:"issue_type" validate:"required"`
	BOQItemID        *string `json:"boq_item_id"`
	BatchID          *string `json:"batch_id"`
	SourceDocumentID *string `json:"source_document_id"`
}

// TransitionRequest cambio genérico de estado.
type TransitionRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Reason    string `json:"reason"`
}

// CloseNCRRequest cierre con evidencia.
type CloseNCRRequest struct {
	ClosedReason    string  `json:"closed_reason" validate:"required"`
	ProofOfFixDocID *string `json:"proof_of_fix_doc_id"`
	CreditNoteDocID *string `json:"credit_note_doc_id"`
}

// ReopenNCRRequest reapertura de un NCR cerrado.
type ReopenNCRRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// NCRListRequest filtros de listado.
type NCRListRequest struct {
	PageRequest
	ProjectID  string `query:"project_id"`
	SupplierID string `query:"supplier_id"`
	Status     string `query:"status"`
	Severity   string `query:"severity"`
}

// NCRResponse proyección completa de un NCR (vista interna).
type NCRResponse struct {
	ID                   string     `json:"id"`
	NCRNumber            string     `json:"ncr_number"`
	OrganizationID       string     `json:"organization_id"`
	ProjectID            string     `json:"project_id"`
	PurchaseOrderID      string     `json:"purchase_order_id"`
	SupplierID           string     `json:"supplier_id"`
	BOQItemID            *string    `json:"boq_item_id,omitempty"`
	BatchID              *string    `json:"batch_id,omitempty"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Severity             string     `json:"severity"`
	IssueType            string     `json:"issue_type"`
	Status               string     `json:"status"`
	ReportedBy           string     `json:"reported_by"`
	ReportedAt           time.Time  `json:"reported_at"`
	SLADueAt             time.Time  `json:"sla_due_at"`
	RequiresCreditNote   bool       `json:"requires_credit_note"`
	MilestonesLocked     []string   `json:"milestones_locked"`
	CreditNoteDocID      *string    `json:"credit_note_doc_id,omitempty"`
	CreditNoteVerifiedAt *time.Time `json:"credit_note_verified_at,omitempty"`
	ProofOfFixDocID      *string    `json:"proof_of_fix_doc_id,omitempty"`
	SourceDocumentID     *string    `json:"source_document_id,omitempty"`
	ClosedBy             *string    `json:"closed_by,omitempty"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`
	ClosedReason         *string    `json:"closed_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

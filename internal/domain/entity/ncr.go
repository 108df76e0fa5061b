package entity

import "time"

// Severidades de un NCR. Determinan el SLA de resolución y la exigencia de evidencia al cerrar.
const (
	SeverityMinor    = "MINOR"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
)

// Tipos de no conformidad.
const (
	IssueTypeDamaged       = "DAMAGED"
	IssueTypeWrongSpec     = "WRONG_SPEC"
	IssueTypeDocMissing    = "DOC_MISSING"
	IssueTypeQuantityShort = "QUANTITY_SHORT"
	IssueTypeQualityDefect = "QUALITY_DEFECT"
	IssueTypeOther         = "OTHER"
)

// Estados del ciclo de vida de un NCR. Las transiciones válidas viven en domain/ncr.
const (
	NCRStatusOpen              = "OPEN"
	NCRStatusSupplierResponded = "SUPPLIER_RESPONDED"
	NCRStatusReinspection      = "REINSPECTION"
	NCRStatusReview            = "REVIEW"
	NCRStatusRemediation       = "REMEDIATION"
	NCRStatusClosed            = "CLOSED"
)

// NCR representa un reporte de no conformidad sobre una orden de compra.
//
// Payment shield: RequiresCreditNote se calcula una sola vez al crear (¿algún hito
// de la PO ya estaba CERTIFIED/INVOICED?) y no cambia aunque los hitos avancen después.
// MilestonesLocked guarda los hitos bloqueados por este NCR mientras está abierto;
// al cerrar se liberan (si ningún otro NCR abierto los referencia) y al reabrir se
// vuelven a bloquear.
type NCR struct {
	ID              string
	OrganizationID  string
	ProjectID       string
	PurchaseOrderID string
	SupplierID      string
	BOQItemID       *string // línea afectada (opcional)
	BatchID         *string // lote/remesa afectada (opcional)

	NCRNumber   string // NCR-0001, secuencial por organización
	Title       string
	Description string
	Severity    string // MINOR, MAJOR, CRITICAL
	IssueType   string
	Status      string

	ReportedBy string
	ReportedAt time.Time
	SLADueAt   time.Time

	RequiresCreditNote   bool
	MilestonesLocked     []string
	CreditNoteDocID      *string
	CreditNoteVerifiedAt *time.Time

	ProofOfFixDocID  *string
	SourceDocumentID *string

	ClosedBy     *string
	ClosedAt     *time.Time
	ClosedReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen indica si el NCR sigue abierto (cualquier estado distinto de CLOSED).
func (n *NCR) IsOpen() bool {
	return n.Status != NCRStatusClosed
}

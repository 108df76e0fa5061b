package dto

import "time"

// CreateMagicLinkRequest creación de un acceso temporal para el proveedor.
type CreateMagicLinkRequest struct {
	SupplierID     string `json:"supplier_id" validate:"required"`
	ExpiresInHours int    `json:"expires_in_hours" validate:"omitempty,min=1,max=720"`
}

// MagicLinkResponse token + URL pública de respuesta.
type MagicLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublicNCRView proyección segura del NCR para el portador de un magic link.
// No expone campos financieros internos ni comentarios internos.
type PublicNCRView struct {
	NCRNumber   string            `json:"ncr_number"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Severity    string            `json:"severity"`
	IssueType   string            `json:"issue_type"`
	Status      string            `json:"status"`
	ReportedAt  time.Time         `json:"reported_at"`
	SLADueAt    time.Time         `json:"sla_due_at"`
	Comments    []CommentResponse `json:"comments"`
}

package entity

import "time"

// Acciones de auditoría registradas por el núcleo NCR.
const (
	AuditActionNCRCreated       = "NCR_CREATED"
	AuditActionNCRTransitioned  = "NCR_TRANSITIONED"
	AuditActionNCRClosed        = "NCR_CLOSED"
	AuditActionNCRReopened      = "NCR_REOPENED"
	AuditActionCommentAdded     = "NCR_COMMENT_ADDED"
	AuditActionMagicLinkCreated = "MAGIC_LINK_CREATED"
	AuditActionMagicLinkViewed  = "MAGIC_LINK_VIEWED"
)

// AuditLog es un registro append-only de toda mutación del núcleo NCR.
type AuditLog struct {
	ID             string
	OrganizationID string
	ActorID        string // user id, o "magic-link:<supplier_id>" para acciones vía link
	Action         string
	EntityType     string // "ncr", "magic_link", "comment"
	EntityID       string
	Metadata       map[string]any
	CreatedAt      time.Time
}

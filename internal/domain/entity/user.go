package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RolePM     = "pm"     // project manager: reporta y cierra NCRs
	RoleQA     = "qa"     // calidad: inspecciona y comenta
	RoleViewer = "viewer" // solo lectura (dashboards)
)

// User representa un usuario del sistema (pertenece a una Organization).
type User struct {
	ID             string
	OrganizationID string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           string // admin, pm, qa, viewer
	Status         string // active, inactive, suspended
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

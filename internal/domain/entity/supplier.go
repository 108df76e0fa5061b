package entity

import "time"

// Supplier representa un proveedor de materiales (pertenece a una Organization).
// LinkedUserID enlaza opcionalmente con una cuenta User del proveedor; si el
// proveedor no tiene email de contacto, las notificaciones usan el email de esa cuenta.
type Supplier struct {
	ID             string
	OrganizationID string
	Name           string
	ContactName    string
	ContactEmail   string
	Phone          string
	LinkedUserID   *string
	ReadinessScore *int // 0-100, evaluación de desempeño; nil = sin evaluar
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package entity

import "time"

// MagicLink es un acceso temporal sin sesión para que el contacto de un proveedor
// vea y responda UN NCR. El par (NCRID, SupplierID) es inmutable tras la creación;
// la expiración es la única forma de terminación (no hay revocación explícita).
type MagicLink struct {
	ID           string
	NCRID        string
	SupplierID   string
	Token        string // 32 bytes de crypto/rand en hex
	ExpiresAt    time.Time
	ViewedAt     *time.Time // primera validación exitosa; no se vuelve a escribir
	LastActionAt *time.Time
	ActionsCount int
	CreatedAt    time.Time
}

// IsExpired indica si el link ya venció respecto a now.
func (l *MagicLink) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

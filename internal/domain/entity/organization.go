package entity

import "time"

// Organization es el tenant: una constructora o dirección de obra.
// Todo dato del sistema (proyectos, POs, NCRs, usuarios) cuelga de una organización.
type Organization struct {
	ID        string
	Name      string
	NIT       string // identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

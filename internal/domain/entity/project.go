package entity

import "time"

// Project representa una obra/proyecto de construcción de la organización.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Code           string
	Status         string // active, on_hold, completed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

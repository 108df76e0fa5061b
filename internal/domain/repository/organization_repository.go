package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// OrganizationRepository define el puerto de lectura de organizaciones (tenants).
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
}

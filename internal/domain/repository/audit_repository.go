package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// AuditRepository es el sink append-only de auditoría. Toda mutación del núcleo
// NCR escribe un registro a través de este puerto (inyectado, nunca global).
type AuditRepository interface {
	Record(ctx context.Context, e *entity.AuditLog) error
}

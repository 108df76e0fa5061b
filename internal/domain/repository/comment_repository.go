package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// CommentRepository define el puerto de persistencia para el hilo de un NCR.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	// ListByNCR devuelve el hilo ordenado del más reciente al más antiguo.
	// Con includeInternal=false se omiten los comentarios internos
	// (frontera de confidencialidad hacia el proveedor).
	ListByNCR(ctx context.Context, ncrID string, includeInternal bool) ([]*entity.Comment, error)
}

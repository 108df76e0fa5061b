package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de lectura de órdenes de compra.
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetBOQItem(ctx context.Context, id string) (*entity.BOQItem, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// GetByID obtiene una orden de compra por ID. Devuelve nil, nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, organization_id, project_id, supplier_id, po_number, description, total_value, currency, status, issued_at, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.OrganizationID, &po.ProjectID, &po.SupplierID, &po.PONumber, &po.Description,
		&po.TotalValue, &po.Currency, &po.Status, &po.IssuedAt, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &po, nil
}

// GetBOQItem obtiene una línea del BOQ por ID. Devuelve nil, nil si no existe.
func (r *PurchaseOrderRepo) GetBOQItem(ctx context.Context, id string) (*entity.BOQItem, error) {
	query := `
		SELECT id, purchase_order_id, item_code, description, unit, quantity, unit_price, created_at
		FROM boq_items WHERE id = $1`
	var it entity.BOQItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.PurchaseOrderID, &it.ItemCode, &it.Description, &it.Unit, &it.Quantity, &it.UnitPrice, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boq item: %w", err)
	}
	return &it, nil
}

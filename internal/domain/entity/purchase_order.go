package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft     = "DRAFT"
	POStatusIssued    = "ISSUED"
	POStatusActive    = "ACTIVE"
	POStatusCompleted = "COMPLETED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder representa una orden de compra de materiales con un proveedor.
type PurchaseOrder struct {
	ID             string
	OrganizationID string
	ProjectID      string
	SupplierID     string
	PONumber       string
	Description    string
	TotalValue     decimal.Decimal
	Currency       string
	Status         string
	IssuedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BOQItem representa una línea del Bill of Quantities de una orden de compra.
type BOQItem struct {
	ID              string
	PurchaseOrderID string
	ItemCode        string
	Description     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	CreatedAt       time.Time
}

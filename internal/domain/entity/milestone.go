package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un hito de pago de una orden de compra.
// CERTIFIED e INVOICED son estados de pago: a partir de ahí el hito se considera pagado
// y un NCR sobre esa PO exige nota crédito para cerrarse (payment shield).
const (
	MilestoneStatusPlanned    = "PLANNED"
	MilestoneStatusInProgress = "IN_PROGRESS"
	MilestoneStatusCompleted  = "COMPLETED"
	MilestoneStatusCertified  = "CERTIFIED"
	MilestoneStatusInvoiced   = "INVOICED"
)

// Milestone representa un hito de avance/pago de una orden de compra.
type Milestone struct {
	ID              string
	PurchaseOrderID string
	Name            string
	Amount          decimal.Decimal
	Status          string
	DueDate         *time.Time
	CertifiedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPaid indica si el hito ya entró en estado de pago (certificado o facturado).
func (m *Milestone) IsPaid() bool {
	return m.Status == MilestoneStatusCertified || m.Status == MilestoneStatusInvoiced
}

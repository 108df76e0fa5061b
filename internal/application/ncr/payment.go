package ncr

import "github.com/tu-usuario/procura-pro/internal/domain/entity"

// AnyMilestonePaid inspecciona el estado de pago de los hitos de una PO:
// true si alguno ya está CERTIFIED o INVOICED. Se consulta exactamente una vez,
// al crear el NCR, para fijar RequiresCreditNote; cambios posteriores en los
// hitos no alteran el flag.
func AnyMilestonePaid(milestones []*entity.Milestone) bool {
	for _, m := range milestones {
		if m.IsPaid() {
			return true
		}
	}
	return false
}

// LockableMilestones devuelve los IDs de los hitos aún no pagados: son los que
// el NCR bloquea para impedir su certificación mientras siga abierto. Los hitos
// ya pagados no se bloquean (el escudo para esos es la nota crédito).
func LockableMilestones(milestones []*entity.Milestone) []string {
	var ids []string
	for _, m := range milestones {
		if !m.IsPaid() {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

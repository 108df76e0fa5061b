package ncr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// ── creación: consecutivo, SLA y estado inicial ──────────────────────────────

func TestCreate_PrimerNCR_NumeroYSLA(t *testing.T) {
	e := newTestEnv()
	req := validCreateRequest()
	req.Severity = entity.SeverityCritical

	before := time.Now()
	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, req)
	require.NoError(t, err)

	assert.Equal(t, "NCR-0001", n.NCRNumber)
	assert.Equal(t, entity.NCRStatusOpen, n.Status)
	assert.Equal(t, testReporterID, n.ReportedBy)
	// CRITICAL: resolución a 24h del reporte
	assert.WithinDuration(t, before.Add(24*time.Hour), n.SLADueAt, 2*time.Second)

	stored, err := e.ncrRepo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "NCR-0001", stored.NCRNumber)
}

func TestCreate_ConsecutivoPorOrganizacion(t *testing.T) {
	e := newTestEnv()

	first, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)
	second, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "NCR-0001", first.NCRNumber)
	assert.Equal(t, "NCR-0002", second.NCRNumber)
}

// Una carrera entre count y create deja el número ocupado: el caso de uso
// debe reintentar con el siguiente consecutivo en vez de fallar.
func TestCreate_ColisionDeConsecutivo_Reintenta(t *testing.T) {
	e := newTestEnv()
	e.ncrRepo.taken[testOrgID+"|NCR-0001"] = true

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "NCR-0002", n.NCRNumber)
}

// La violación del constraint deja la transacción abortada: el reintento debe
// abrir una transacción nueva, nunca reusar la abortada (el fake rechaza todo
// insert posterior dentro de la misma transacción, como Postgres).
func TestCreate_Colision_TransaccionNuevaPorIntento(t *testing.T) {
	e := newTestEnv()
	e.ncrRepo.taken[testOrgID+"|NCR-0001"] = true

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "NCR-0002", n.NCRNumber)
	assert.Equal(t, 2, e.tx.runs, "cada intento abre su propia transacción")
}

func TestCreate_ColisionPersistente_AgotaReintentos(t *testing.T) {
	e := newTestEnv()
	for _, num := range []string{"NCR-0001", "NCR-0002", "NCR-0003", "NCR-0004", "NCR-0005"} {
		e.ncrRepo.taken[testOrgID+"|"+num] = true
	}

	_, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ── payment shield y bloqueo de hitos ────────────────────────────────────────

func TestCreate_HitoCertificado_ExigeNotaCredito(t *testing.T) {
	e := newTestEnv()
	e.seedMilestone("m-paid", entity.MilestoneStatusCertified)
	e.seedMilestone("m-pending", entity.MilestoneStatusInProgress)

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)

	assert.True(t, n.RequiresCreditNote)
	// solo se bloquean los hitos aún no pagados
	assert.Equal(t, []string{"m-pending"}, n.MilestonesLocked)
	assert.True(t, e.milestoneRepo.isLocked("m-pending"))
	assert.False(t, e.milestoneRepo.isLocked("m-paid"))
}

func TestCreate_HitoFacturado_ExigeNotaCredito(t *testing.T) {
	e := newTestEnv()
	e.seedMilestone("m-invoiced", entity.MilestoneStatusInvoiced)

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)
	assert.True(t, n.RequiresCreditNote)
	assert.Empty(t, n.MilestonesLocked)
}

func TestCreate_SinHitosPagados_NoExigeNotaCredito(t *testing.T) {
	e := newTestEnv()
	e.seedMilestone("m-1", entity.MilestoneStatusPlanned)
	e.seedMilestone("m-2", entity.MilestoneStatusCompleted)

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)

	assert.False(t, n.RequiresCreditNote)
	assert.ElementsMatch(t, []string{"m-1", "m-2"}, n.MilestonesLocked)
	assert.True(t, e.milestoneRepo.isLocked("m-1"))
	assert.True(t, e.milestoneRepo.isLocked("m-2"))
}

// El flag de nota crédito se fija al crear y no cambia aunque los hitos se
// paguen después: solo el estado de pago al momento del reporte cuenta.
func TestCreate_NotaCreditoInmutableTrasPagoPosterior(t *testing.T) {
	e := newTestEnv()
	e.seedMilestone("m-1", entity.MilestoneStatusInProgress)

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)
	require.False(t, n.RequiresCreditNote)

	// el hito se certifica después del reporte
	e.milestoneRepo.milestones["m-1"].Status = entity.MilestoneStatusCertified

	_, err = e.lifecycle.Transition(context.Background(), testOrgID, n.ID, entity.NCRStatusReview, testReporterID, "a revisión")
	require.NoError(t, err)
	stored, err := e.ncrRepo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.False(t, stored.RequiresCreditNote)

	// y el cierre no exige nota crédito
	closed, err := e.lifecycle.Close(context.Background(), testOrgID, n.ID, testReporterID, "resuelto", str("doc-proof-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.NCRStatusClosed, closed.Status)
	assert.False(t, closed.RequiresCreditNote)
}

func TestCreate_RegistraAuditoria(t *testing.T) {
	e := newTestEnv()
	e.seedMilestone("m-1", entity.MilestoneStatusInProgress)

	n, err := e.create.Create(context.Background(), testOrgID, testReporterID, validCreateRequest())
	require.NoError(t, err)

	entries := e.auditRepo.byAction(entity.AuditActionNCRCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, n.ID, entries[0].EntityID)
	assert.Equal(t, testReporterID, entries[0].ActorID)
	assert.Equal(t, n.NCRNumber, entries[0].Metadata["ncr_number"])
	assert.Equal(t, 1, entries[0].Metadata["milestones_locked"])
}

// ── validación de entrada y pertenencia ──────────────────────────────────────

func TestCreate_SeveridadInvalida(t *testing.T) {
	e := newTestEnv()
	req := validCreateRequest()
	req.Severity = "CATASTROPHIC"

	_, err := e.create.Create(context.Background(), testOrgID, testReporterID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PONoExiste(t *testing.T) {
	e := newTestEnv()
	req := validCreateRequest()
	req.PurchaseOrderID = "po-no-existe"

	_, err := e.create.Create(context.Background(), testOrgID, testReporterID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_PODeOtraOrganizacion(t *testing.T) {
	e := newTestEnv()

	_, err := e.create.Create(context.Background(), testOtherOrgID, testReporterID, validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_ProveedorNoCoincideConPO(t *testing.T) {
	e := newTestEnv()
	e.supplierRepo.suppliers["sup-otro"] = &entity.Supplier{
		ID: "sup-otro", OrganizationID: testOrgID, Name: "Otro Proveedor",
	}
	req := validCreateRequest()
	req.SupplierID = "sup-otro"

	_, err := e.create.Create(context.Background(), testOrgID, testReporterID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_BOQItemDeOtraPO(t *testing.T) {
	e := newTestEnv()
	e.poRepo.items["boq-ajena"] = &entity.BOQItem{ID: "boq-ajena", PurchaseOrderID: "po-ajena"}
	req := validCreateRequest()
	req.BOQItemID = str("boq-ajena")

	_, err := e.create.Create(context.Background(), testOrgID, testReporterID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

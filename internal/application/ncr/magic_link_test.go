package ncr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// ── creación ─────────────────────────────────────────────────────────────────

func TestMagicLink_Create_TokenYVigenciaPorDefecto(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)

	before := time.Now()
	resp, err := e.links.Create(context.Background(), testOrgID, "n1", testSupplierID, 0)
	require.NoError(t, err)

	// 32 bytes de crypto/rand en hex
	assert.Len(t, resp.Token, 64)
	assert.Equal(t, "https://app.procurapro.test/public/ncr/"+resp.Token, resp.URL)
	// vigencia por defecto: 72h
	assert.WithinDuration(t, before.Add(72*time.Hour), resp.ExpiresAt, 2*time.Second)

	link, err := e.linkRepo.GetByToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "n1", link.NCRID)
	assert.Equal(t, testSupplierID, link.SupplierID)
	assert.Nil(t, link.ViewedAt)
}

func TestMagicLink_Create_VigenciaExplicita(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)

	before := time.Now()
	resp, err := e.links.Create(context.Background(), testOrgID, "n1", testSupplierID, 24)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(24*time.Hour), resp.ExpiresAt, 2*time.Second)
}

func TestMagicLink_Create_NCRDeOtraOrganizacion(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)

	_, err := e.links.Create(context.Background(), testOtherOrgID, "n1", testSupplierID, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMagicLink_Create_ProveedorNoCoincide(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)

	_, err := e.links.Create(context.Background(), testOrgID, "n1", "sup-otro", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── resolución y validación ──────────────────────────────────────────────────

func TestMagicLink_Resolve_TokenInexistente(t *testing.T) {
	e := newTestEnv()

	_, err := e.links.Resolve(context.Background(), "tok-fantasma")
	assert.ErrorIs(t, err, domain.ErrInvalidLink)
}

func TestMagicLink_Resolve_Expirado(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-viejo", "n1", time.Now().Add(-time.Minute))

	_, err := e.links.Resolve(context.Background(), "tok-viejo")
	assert.ErrorIs(t, err, domain.ErrLinkExpired)
}

// Resolve no toca los contadores: eso lo hace la operación posterior.
func TestMagicLink_Resolve_NoConsumeUso(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))

	link, err := e.links.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "n1", link.NCRID)

	stored, _ := e.linkRepo.GetByToken(context.Background(), "tok-1")
	assert.Nil(t, stored.ViewedAt)
	assert.Zero(t, stored.ActionsCount)
}

// La primera validación fija ViewedAt; las siguientes no lo mueven.
func TestMagicLink_Validate_ViewedAtUnaVez(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))

	first, err := e.links.Validate(context.Background(), "tok-1", "n1")
	require.NoError(t, err)
	require.NotNil(t, first.ViewedAt)
	firstView := *first.ViewedAt

	time.Sleep(5 * time.Millisecond)
	second, err := e.links.Validate(context.Background(), "tok-1", "n1")
	require.NoError(t, err)
	assert.Equal(t, firstView, *second.ViewedAt)

	assert.Len(t, e.auditRepo.byAction(entity.AuditActionMagicLinkViewed), 1)
}

// Un fallo transitorio leyendo el NCR no bloquea la validación: la primera
// vista se audita sin organización y el fallo queda en el log.
func TestMagicLink_Validate_FalloLeyendoNCR_NoBloquea(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))
	e.ncrRepo.getErr = errors.New("conexión perdida")

	link, err := e.links.Validate(context.Background(), "tok-1", "n1")
	require.NoError(t, err)
	require.NotNil(t, link.ViewedAt)

	entries := e.auditRepo.byAction(entity.AuditActionMagicLinkViewed)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].OrganizationID)
}

func TestMagicLink_Validate_NCRAjeno(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))

	_, err := e.links.Validate(context.Background(), "tok-1", "n2")
	assert.ErrorIs(t, err, domain.ErrInvalidLink)
}

func TestMagicLink_RecordAction_IncrementaContadores(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))

	require.NoError(t, e.links.RecordAction(context.Background(), "tok-1"))
	require.NoError(t, e.links.RecordAction(context.Background(), "tok-1"))

	link, _ := e.linkRepo.GetByToken(context.Background(), "tok-1")
	assert.Equal(t, 2, link.ActionsCount)
	assert.NotNil(t, link.LastActionAt)
}

// ── vista pública ────────────────────────────────────────────────────────────

func TestMagicLink_GetNCRView_ProyeccionSegura(t *testing.T) {
	e := newTestEnv()
	n := e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityCritical, true, nil)
	e.seedLink("tok-1", "n1", time.Now().Add(time.Hour))

	uc := e.newCommentUC(nil)
	_, err := uc.AddComment(context.Background(), testOrgID, entity.UserAuthor(testReporterID), "n1", dtoComment("respuesta visible", false))
	require.NoError(t, err)
	_, err = uc.AddComment(context.Background(), testOrgID, entity.UserAuthor(testReporterID), "n1", dtoComment("nota interna de negociación", true))
	require.NoError(t, err)

	view, err := e.links.GetNCRView(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Equal(t, n.NCRNumber, view.NCRNumber)
	assert.Equal(t, entity.SeverityCritical, view.Severity)
	require.Len(t, view.Comments, 1, "los comentarios internos jamás salen por la vista pública")
	assert.Equal(t, "respuesta visible", view.Comments[0].Content)
}

func TestMagicLink_GetNCRView_Expirado(t *testing.T) {
	e := newTestEnv()
	e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	e.seedLink("tok-viejo", "n1", time.Now().Add(-time.Minute))

	_, err := e.links.GetNCRView(context.Background(), "tok-viejo")
	assert.ErrorIs(t, err, domain.ErrLinkExpired)
}

package ncr_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appncr "github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

func newNotifier(e *testEnv, mailer *fakeMailer) *appncr.Notifier {
	return appncr.NewNotifier(mailer, e.userRepo, e.supplierRepo, e.links, e.linkCfg, testLogger())
}

func supplierComment(ncrID, content string) *entity.Comment {
	return &entity.Comment{
		ID:         "c-1",
		NCRID:      ncrID,
		Author:     entity.MagicLinkAuthor("tok-1"),
		AuthorRole: entity.CommentRoleSupplier,
		Content:    content,
		CreatedAt:  time.Now(),
	}
}

// Comentario del proveedor: correo al reportero con deep link al dashboard.
func TestDispatch_RespuestaProveedor_NotificaAlReportero(t *testing.T) {
	e := newTestEnv()
	n := e.seedNCR("n1", entity.NCRStatusSupplierResponded, entity.SeverityMajor, false, nil)
	mailer := newFakeMailer()

	err := newNotifier(e, mailer).Dispatch(context.Background(), n, supplierComment("n1", "reposición en camino"))
	require.NoError(t, err)
	mailer.waitSent(t)

	require.Len(t, mailer.responded, 1)
	assert.Equal(t, "pm@constructora.co", mailer.lastTo)
	assert.Equal(t, n.NCRNumber, mailer.responded[0].NCRNumber)
	assert.Equal(t, "Cementos del Valle", mailer.responded[0].SupplierName)
	assert.Equal(t, "https://app.procurapro.test/dashboard/ncrs/n1", mailer.responded[0].DashboardURL)
}

// Comentario del PM: correo al contacto del proveedor con un magic link fresco.
func TestDispatch_ComentarioPM_NotificaAlProveedorConLinkFresco(t *testing.T) {
	e := newTestEnv()
	n := e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	mailer := newFakeMailer()

	c := &entity.Comment{
		ID:         "c-1",
		NCRID:      "n1",
		Author:     entity.UserAuthor(testReporterID),
		AuthorRole: entity.CommentRolePM,
		Content:    "favor responder con plan de acción",
	}
	err := newNotifier(e, mailer).Dispatch(context.Background(), n, c)
	require.NoError(t, err)
	mailer.waitSent(t)

	require.Len(t, mailer.toSupplier, 1)
	assert.Equal(t, "contacto@cementosdelvalle.co", mailer.lastTo)
	mail := mailer.toSupplier[0]
	assert.Equal(t, entity.CommentRolePM, mail.AuthorRole)

	// el link de respuesta debe existir y ser válido
	token := strings.TrimPrefix(mail.RespondURL, "https://app.procurapro.test/public/ncr/")
	link, err := e.linkRepo.GetByToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "n1", link.NCRID)
}

// Proveedor sin email de contacto: se usa el de su cuenta de usuario enlazada.
func TestDispatch_ProveedorSinEmail_UsaCuentaEnlazada(t *testing.T) {
	e := newTestEnv()
	e.userRepo.users["user-sup"] = &entity.User{
		ID: "user-sup", OrganizationID: testOrgID, Email: "ventas@cementosdelvalle.co", Role: entity.RoleViewer,
	}
	sup := e.supplierRepo.suppliers[testSupplierID]
	sup.ContactEmail = ""
	sup.LinkedUserID = str("user-sup")

	n := e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	mailer := newFakeMailer()

	c := &entity.Comment{
		ID:         "c-1",
		NCRID:      "n1",
		Author:     entity.UserAuthor(testReporterID),
		AuthorRole: entity.CommentRoleQA,
		Content:    "adjuntar certificado",
	}
	require.NoError(t, newNotifier(e, mailer).Dispatch(context.Background(), n, c))
	mailer.waitSent(t)
	assert.Equal(t, "ventas@cementosdelvalle.co", mailer.lastTo)
}

// Destinatario irresoluble: no-op silencioso, nunca error hacia el caller.
func TestDispatch_SinDestinatario_NoOp(t *testing.T) {
	e := newTestEnv()
	sup := e.supplierRepo.suppliers[testSupplierID]
	sup.ContactEmail = ""

	n := e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	mailer := newFakeMailer()

	c := &entity.Comment{
		ID:         "c-1",
		NCRID:      "n1",
		Author:     entity.UserAuthor(testReporterID),
		AuthorRole: entity.CommentRolePM,
		Content:    "hola",
	}
	err := newNotifier(e, mailer).Dispatch(context.Background(), n, c)
	require.NoError(t, err)
	assert.Empty(t, mailer.toSupplier)
	assert.Empty(t, mailer.responded)
}

// Los comentarios internos nunca salen del sistema.
func TestDispatch_Interno_NoOp(t *testing.T) {
	e := newTestEnv()
	n := e.seedNCR("n1", entity.NCRStatusOpen, entity.SeverityMajor, false, nil)
	mailer := newFakeMailer()

	c := supplierComment("n1", "texto")
	c.IsInternal = true
	require.NoError(t, newNotifier(e, mailer).Dispatch(context.Background(), n, c))
	assert.Empty(t, mailer.responded)
	assert.Empty(t, mailer.toSupplier)
}

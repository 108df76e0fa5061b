package ncr_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/procura-pro/internal/application/dto"
	appncr "github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// IDs fijos del escenario base compartido por los tests del paquete.
const (
	testOrgID      = "org-1"
	testOtherOrgID = "org-2"
	testProjectID  = "proj-1"
	testPOID       = "po-1"
	testSupplierID = "sup-1"
	testReporterID = "user-pm-1"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

// ── fakes en memoria de los puertos de persistencia ──────────────────────────

type fakeNCRRepo struct {
	mu   sync.Mutex
	ncrs map[string]*entity.NCR
	// números pre-reservados "org|número" (simula un insert concurrente entre
	// el count y el create; dispara el reintento del consecutivo)
	taken map[string]bool
	// tras un error la transacción queda abortada hasta abrir una nueva,
	// como en Postgres
	txAborted bool
	getErr    error // fallo inyectado en GetByID
}

func newFakeNCRRepo() *fakeNCRRepo {
	return &fakeNCRRepo{ncrs: map[string]*entity.NCR{}, taken: map[string]bool{}}
}

func (r *fakeNCRRepo) resetTx() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txAborted = false
}

func (r *fakeNCRRepo) Create(_ context.Context, n *entity.NCR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.txAborted {
		return errors.New("current transaction is aborted")
	}
	key := n.OrganizationID + "|" + n.NCRNumber
	if r.taken[key] {
		r.txAborted = true
		return domain.ErrDuplicate
	}
	for _, other := range r.ncrs {
		if other.OrganizationID == n.OrganizationID && other.NCRNumber == n.NCRNumber {
			r.txAborted = true
			return domain.ErrDuplicate
		}
	}
	cp := *n
	r.ncrs[n.ID] = &cp
	return nil
}

func (r *fakeNCRRepo) GetByID(_ context.Context, id string) (*entity.NCR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	n, ok := r.ncrs[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNCRRepo) List(_ context.Context, organizationID string, _ repository.NCRFilter) ([]*entity.NCR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NCR
	for _, n := range r.ncrs {
		if n.OrganizationID == organizationID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeNCRRepo) CountByOrganization(_ context.Context, organizationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.ncrs {
		if n.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeNCRRepo) Update(_ context.Context, n *entity.NCR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ncrs[n.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *n
	r.ncrs[n.ID] = &cp
	return nil
}

func (r *fakeNCRRepo) FindOpenByMilestone(_ context.Context, milestoneID, excludeNCRID string) ([]*entity.NCR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NCR
	for _, n := range r.ncrs {
		if n.ID == excludeNCRID || n.Status == entity.NCRStatusClosed {
			continue
		}
		for _, mid := range n.MilestonesLocked {
			if mid == milestoneID {
				cp := *n
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

type fakeMilestoneRepo struct {
	mu         sync.Mutex
	milestones map[string]*entity.Milestone
	locked     map[string]bool
}

func newFakeMilestoneRepo() *fakeMilestoneRepo {
	return &fakeMilestoneRepo{milestones: map[string]*entity.Milestone{}, locked: map[string]bool{}}
}

func (r *fakeMilestoneRepo) GetByID(_ context.Context, id string) (*entity.Milestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.milestones[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMilestoneRepo) ListByPurchaseOrder(_ context.Context, purchaseOrderID string) ([]*entity.Milestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Milestone
	for _, m := range r.milestones {
		if m.PurchaseOrderID == purchaseOrderID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMilestoneRepo) SetLocked(_ context.Context, milestoneIDs []string, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range milestoneIDs {
		r.locked[id] = locked
	}
	return nil
}

func (r *fakeMilestoneRepo) isLocked(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked[id]
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*entity.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *fakeCommentRepo) ListByNCR(_ context.Context, ncrID string, includeInternal bool) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comment
	// del más reciente al más antiguo
	for i := len(r.comments) - 1; i >= 0; i-- {
		c := r.comments[i]
		if c.NCRID != ncrID {
			continue
		}
		if c.IsInternal && !includeInternal {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[string]*entity.MagicLink // por token
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[string]*entity.MagicLink{}}
}

func (r *fakeLinkRepo) Create(_ context.Context, l *entity.MagicLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.links[l.Token] = &cp
	return nil
}

func (r *fakeLinkRepo) GetByToken(_ context.Context, token string) (*entity.MagicLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[token]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLinkRepo) Update(_ context.Context, l *entity.MagicLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[l.Token]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	r.links[l.Token] = &cp
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Record(_ context.Context, e *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeAuditRepo) byAction(action string) []*entity.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakePORepo struct {
	pos   map[string]*entity.PurchaseOrder
	items map[string]*entity.BOQItem
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{pos: map[string]*entity.PurchaseOrder{}, items: map[string]*entity.BOQItem{}}
}

func (r *fakePORepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	return &cp, nil
}

func (r *fakePORepo) GetBOQItem(_ context.Context, id string) (*entity.BOQItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[string]*entity.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{}}
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmailAndOrganization(_ context.Context, email, organizationID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.OrganizationID == organizationID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// fakeTxRunner invoca el callback directamente con los fakes. Cada Run cuenta
// como una transacción nueva: limpia el estado abortado del repo de NCRs, igual
// que un BEGIN real tras un rollback.
type fakeTxRunner struct {
	ncr       *fakeNCRRepo
	milestone *fakeMilestoneRepo
	comment   *fakeCommentRepo
	link      *fakeLinkRepo
	audit     *fakeAuditRepo
	runs      int
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.NCRRepository,
	repository.MilestoneRepository,
	repository.AuditRepository,
) error) error {
	r.runs++
	r.ncr.resetTx()
	return fn(r.ncr, r.milestone, r.audit)
}

func (r *fakeTxRunner) RunComment(_ context.Context, fn func(
	repository.NCRRepository,
	repository.CommentRepository,
	repository.MagicLinkRepository,
	repository.AuditRepository,
) error) error {
	r.runs++
	r.ncr.resetTx()
	return fn(r.ncr, r.comment, r.link, r.audit)
}

// fakeMailer registra los envíos y avisa por canal (para sincronizar con el
// despacho fire-and-forget). err != nil simula fallo del servidor de correo.
type fakeMailer struct {
	mu         sync.Mutex
	err        error
	responded  []appncr.SupplierRespondedMail
	toSupplier []appncr.CommentToSupplierMail
	lastTo     string
	sent       chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan struct{}, 8)}
}

func (m *fakeMailer) SendSupplierResponded(_ context.Context, to string, data appncr.SupplierRespondedMail) error {
	m.mu.Lock()
	m.lastTo = to
	m.responded = append(m.responded, data)
	err := m.err
	m.mu.Unlock()
	m.sent <- struct{}{}
	return err
}

func (m *fakeMailer) SendCommentToSupplier(_ context.Context, to string, data appncr.CommentToSupplierMail) error {
	m.mu.Lock()
	m.lastTo = to
	m.toSupplier = append(m.toSupplier, data)
	err := m.err
	m.mu.Unlock()
	m.sent <- struct{}{}
	return err
}

func (m *fakeMailer) waitSent(t interface{ Fatalf(string, ...any) }) {
	select {
	case <-m.sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("la notificación nunca se despachó")
	}
}

// ── escenario base ───────────────────────────────────────────────────────────

// testEnv reúne fakes y casos de uso sobre un escenario sembrado:
// una PO activa de testSupplierID con hitos configurables.
type testEnv struct {
	ncrRepo       *fakeNCRRepo
	milestoneRepo *fakeMilestoneRepo
	commentRepo   *fakeCommentRepo
	linkRepo      *fakeLinkRepo
	auditRepo     *fakeAuditRepo
	poRepo        *fakePORepo
	supplierRepo  *fakeSupplierRepo
	userRepo      *fakeUserRepo
	tx            *fakeTxRunner
	locks         *appncr.LockManager
	linkCfg       appncr.LinkConfig

	create    *appncr.CreateNCRUseCase
	lifecycle *appncr.LifecycleUseCase
	links     *appncr.MagicLinkUseCase
}

func newTestEnv() *testEnv {
	log := testLogger()
	e := &testEnv{
		ncrRepo:       newFakeNCRRepo(),
		milestoneRepo: newFakeMilestoneRepo(),
		commentRepo:   &fakeCommentRepo{},
		linkRepo:      newFakeLinkRepo(),
		auditRepo:     &fakeAuditRepo{},
		poRepo:        newFakePORepo(),
		supplierRepo:  newFakeSupplierRepo(),
		userRepo:      newFakeUserRepo(),
		linkCfg:       appncr.LinkConfig{BaseURL: "https://app.procurapro.test", DefaultHours: 72},
	}
	e.tx = &fakeTxRunner{
		ncr:       e.ncrRepo,
		milestone: e.milestoneRepo,
		comment:   e.commentRepo,
		link:      e.linkRepo,
		audit:     e.auditRepo,
	}
	e.locks = appncr.NewLockManager(log)
	e.create = appncr.NewCreateNCRUseCase(e.tx, e.poRepo, e.supplierRepo, e.milestoneRepo, e.locks, log)
	e.lifecycle = appncr.NewLifecycleUseCase(e.tx, e.locks, log)
	e.links = appncr.NewMagicLinkUseCase(e.linkRepo, e.ncrRepo, e.supplierRepo, e.commentRepo, e.auditRepo, e.linkCfg, log)

	e.poRepo.pos[testPOID] = &entity.PurchaseOrder{
		ID:             testPOID,
		OrganizationID: testOrgID,
		ProjectID:      testProjectID,
		SupplierID:     testSupplierID,
		PONumber:       "PO-0007",
		TotalValue:     decimal.NewFromInt(150_000_000),
		Currency:       "COP",
		Status:         entity.POStatusActive,
	}
	e.supplierRepo.suppliers[testSupplierID] = &entity.Supplier{
		ID:             testSupplierID,
		OrganizationID: testOrgID,
		Name:           "Cementos del Valle",
		ContactEmail:   "contacto@cementosdelvalle.co",
		Status:         "active",
	}
	e.userRepo.users[testReporterID] = &entity.User{
		ID:             testReporterID,
		OrganizationID: testOrgID,
		Email:          "pm@constructora.co",
		Name:           "Laura PM",
		Role:           entity.RolePM,
		Status:         "active",
	}
	return e
}

func (e *testEnv) newCommentUC(notifier *appncr.Notifier) *appncr.CommentUseCase {
	return appncr.NewCommentUseCase(e.tx, e.ncrRepo, e.commentRepo, notifier, testLogger())
}

// seedMilestone agrega un hito a la PO base.
func (e *testEnv) seedMilestone(id, status string) {
	e.milestoneRepo.milestones[id] = &entity.Milestone{
		ID:              id,
		PurchaseOrderID: testPOID,
		Name:            "Hito " + id,
		Amount:          decimal.NewFromInt(10_000_000),
		Status:          status,
	}
}

// seedNCR inserta un NCR directamente en el repo (sin pasar por el caso de uso).
func (e *testEnv) seedNCR(id, status, severity string, requiresCreditNote bool, milestonesLocked []string) *entity.NCR {
	now := time.Now()
	n := &entity.NCR{
		ID:                 id,
		OrganizationID:     testOrgID,
		ProjectID:          testProjectID,
		PurchaseOrderID:    testPOID,
		SupplierID:         testSupplierID,
		NCRNumber:          "NCR-" + id,
		Title:              "Acero con corrosión superficial",
		Description:        "Lote entregado con óxido visible en el 30% de las barras",
		Severity:           severity,
		IssueType:          entity.IssueTypeQualityDefect,
		Status:             status,
		ReportedBy:         testReporterID,
		ReportedAt:         now,
		SLADueAt:           now.Add(72 * time.Hour),
		RequiresCreditNote: requiresCreditNote,
		MilestonesLocked:   milestonesLocked,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	e.ncrRepo.ncrs[id] = n
	for _, mid := range milestonesLocked {
		e.milestoneRepo.locked[mid] = true
	}
	return n
}

// seedLink inserta un magic link activo para el NCR dado.
func (e *testEnv) seedLink(token, ncrID string, expiresAt time.Time) *entity.MagicLink {
	l := &entity.MagicLink{
		ID:         "link-" + token,
		NCRID:      ncrID,
		SupplierID: testSupplierID,
		Token:      token,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}
	e.linkRepo.links[token] = l
	return l
}

func str(s string) *string { return &s }

func dtoComment(content string, internal bool) dto.AddCommentRequest {
	return dto.AddCommentRequest{
		Content:    content,
		AuthorRole: entity.CommentRolePM,
		IsInternal: internal,
	}
}

func validCreateRequest() dto.CreateNCRRequest {
	return dto.CreateNCRRequest{
		ProjectID:       testProjectID,
		PurchaseOrderID: testPOID,
		SupplierID:      testSupplierID,
		Title:           "Acero con corrosión superficial",
		Description:     "Lote entregado con óxido visible",
		Severity:        entity.SeverityMajor,
		IssueType:       entity.IssueTypeQualityDefect,
	}
}

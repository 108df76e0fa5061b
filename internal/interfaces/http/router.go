package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/procura-pro/internal/application/analytics"
	"github.com/tu-usuario/procura-pro/internal/application/auth"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CreateNCR   *ncr.CreateNCRUseCase
	LifecycleUC *ncr.LifecycleUseCase
	QueryUC     *ncr.QueryUseCase
	CommentUC   *ncr.CommentUseCase
	MagicLinkUC *ncr.MagicLinkUseCase
	PDFUC       *ncr.PDFUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Portal de proveedor vía magic link (público, autenticado por token de URL)
	publicHandler := NewPublicHandler(deps.MagicLinkUC, deps.CommentUC)
	public := app.Group("/public/ncr")
	public.Get("/:token", publicHandler.GetNCRView)
	public.Post("/:token/comments", publicHandler.AddComment)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	canReport := RequireRole(entity.RoleAdmin, entity.RolePM, entity.RoleQA)
	canClose := RequireRole(entity.RoleAdmin, entity.RolePM)

	// NCRs (protegido)
	ncrs := protected.Group("/ncrs")
	ncrHandler := NewNCRHandler(deps.CreateNCR, deps.LifecycleUC, deps.QueryUC, deps.PDFUC)
	ncrs.Post("/", canReport, ncrHandler.Create)
	ncrs.Get("/", ncrHandler.List)
	ncrs.Get("/:id", ncrHandler.GetByID)
	ncrs.Post("/:id/transition", canReport, ncrHandler.Transition)
	ncrs.Post("/:id/close", canClose, ncrHandler.Close)
	ncrs.Post("/:id/reopen", canReport, ncrHandler.Reopen)
	ncrs.Get("/:id/pdf", ncrHandler.DownloadPDF)

	// Hilo de comentarios (protegido)
	commentHandler := NewCommentHandler(deps.CommentUC)
	ncrs.Post("/:id/comments", canReport, commentHandler.Add)
	ncrs.Get("/:id/comments", commentHandler.GetThread)

	// Magic links (protegido)
	magicLinkHandler := NewMagicLinkHandler(deps.MagicLinkUC)
	ncrs.Post("/:id/magic-links", canReport, magicLinkHandler.Create)

	// Dashboard de calidad (protegido, cualquier rol autenticado)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/quality", dashboardHandler.QualityKPIs)
	dashboard.Get("/suppliers", dashboardHandler.SupplierNCRCounts)
}

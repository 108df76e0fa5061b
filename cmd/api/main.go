package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/tu-usuario/procura-pro/internal/application/analytics"
	"github.com/tu-usuario/procura-pro/internal/application/auth"
	appncr "github.com/tu-usuario/procura-pro/internal/application/ncr"
	inframail "github.com/tu-usuario/procura-pro/internal/infrastructure/mail"
	infrapdf "github.com/tu-usuario/procura-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/procura-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/procura-pro/internal/interfaces/http"
	"github.com/tu-usuario/procura-pro/pkg/config"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos sobre el pool (las operaciones transaccionales usan el TxRunner).
	orgRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	milestoneRepo := postgres.NewMilestoneRepository(pool)
	ncrRepo := postgres.NewNCRRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	linkRepo := postgres.NewMagicLinkRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	linkCfg := appncr.LinkConfig{
		BaseURL:      cfg.Link.BaseURL,
		DefaultHours: cfg.Link.DefaultHours,
	}

	locks := appncr.NewLockManager(log)
	createNCRUC := appncr.NewCreateNCRUseCase(txRunner, poRepo, supplierRepo, milestoneRepo, locks, log)
	lifecycleUC := appncr.NewLifecycleUseCase(txRunner, locks, log)
	queryUC := appncr.NewQueryUseCase(ncrRepo)
	magicLinkUC := appncr.NewMagicLinkUseCase(linkRepo, ncrRepo, supplierRepo, commentRepo, auditRepo, linkCfg, log)

	mailer := inframail.NewGomailMailer(cfg.SMTP, log)
	notifier := appncr.NewNotifier(mailer, userRepo, supplierRepo, magicLinkUC, linkCfg, log)
	commentUC := appncr.NewCommentUseCase(txRunner, ncrRepo, commentRepo, notifier, log)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := appncr.NewPDFUseCase(ncrRepo, supplierRepo, poRepo, commentRepo, pdfGenerator)

	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	authUC := auth.NewAuthUseCase(userRepo, orgRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ProcuraPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CreateNCR:   createNCRUC,
		LifecycleUC: lifecycleUC,
		QueryUC:     queryUC,
		CommentUC:   commentUC,
		MagicLinkUC: magicLinkUC,
		PDFUC:       pdfUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

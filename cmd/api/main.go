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
	"github.com/sforero94/Escociaos-sub004/internal/application/auth"
	"github.com/sforero94/Escociaos-sub004/internal/application/campaign"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/application/usecase"
	"github.com/sforero94/Escociaos-sub004/internal/application/verification"
	"github.com/sforero94/Escociaos-sub004/internal/infrastructure/postgres"
	httpRouter "github.com/sforero94/Escociaos-sub004/internal/interfaces/http"
	"github.com/sforero94/Escociaos-sub004/pkg/config"
	"github.com/sforero94/Escociaos-sub004/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	usageRepo := postgres.NewDailyUsageRepository(pool)
	verificationRepo := postgres.NewVerificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := stock.NewLedgerUseCase(txRunner, productRepo, movementRepo)
	lifecycleUC := campaign.NewLifecycleUseCase(applicationRepo, productRepo)
	journalUC := campaign.NewJournalUseCase(txRunner, usageRepo, productRepo)
	closingUC := campaign.NewClosingUseCase(txRunner)
	reconciliationUC := campaign.NewReconciliationUseCase(applicationRepo, usageRepo, productRepo)
	verificationUC := verification.NewUseCase(txRunner, verificationRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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
		Title:    "Escociaos Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		LedgerUC:         ledgerUC,
		LifecycleUC:      lifecycleUC,
		JournalUC:        journalUC,
		ClosingUC:        closingUC,
		ReconciliationUC: reconciliationUC,
		VerificationUC:   verificationUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
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

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sforero94/Escociaos-sub004/internal/application/auth"
	"github.com/sforero94/Escociaos-sub004/internal/application/campaign"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/application/usecase"
	"github.com/sforero94/Escociaos-sub004/internal/application/verification"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	LedgerUC         *stock.LedgerUseCase
	LifecycleUC      *campaign.LifecycleUseCase
	JournalUC        *campaign.JournalUseCase
	ClosingUC        *campaign.ClosingUseCase
	ReconciliationUC *campaign.ReconciliationUseCase
	VerificationUC   *verification.UseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// El operario registra consumos; planear, cerrar y aprobar conteos
	// queda en manos de agrónomo o admin.
	manage := RequireRole(entity.RoleAdmin, entity.RoleAgronomo)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", manage, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manage, productHandler.Update)

	// Applications (protegido)
	applications := protected.Group("/applications")
	appHandler := NewApplicationHandler(deps.LifecycleUC, deps.JournalUC, deps.ClosingUC, deps.ReconciliationUC)
	stockHandler := NewStockHandler(deps.LedgerUC)
	applications.Post("/", manage, appHandler.Create)
	applications.Get("/", appHandler.List)
	applications.Get("/:id", appHandler.GetByID)
	applications.Post("/:id/start", manage, appHandler.StartExecution)
	applications.Post("/:id/usage", appHandler.RecordUsage)
	applications.Get("/:id/usage", appHandler.ListUsage)
	applications.Get("/:id/reconciliation", appHandler.GetReconciliation)
	applications.Post("/:id/close", manage, appHandler.Close)
	applications.Get("/:id/movements", stockHandler.ListByApplication)

	// Daily usage (protegido)
	protected.Delete("/usage/:id", appHandler.DeleteUsage)

	// Stock ledger (protegido)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/inflows", manage, stockHandler.RegisterInflow)
	stockGroup.Get("/:id/balance", stockHandler.GetBalance)
	stockGroup.Get("/:id/movements", stockHandler.ListByProduct)

	// Physical count sessions (protegido)
	verifications := protected.Group("/verifications")
	verificationHandler := NewVerificationHandler(deps.VerificationUC)
	verifications.Post("/", verificationHandler.Start)
	verifications.Get("/:id", verificationHandler.GetSession)
	verifications.Post("/:id/counts", verificationHandler.RecordCount)
	verifications.Post("/:id/complete", verificationHandler.Complete)
	verifications.Post("/:id/approve", manage, verificationHandler.Approve)
	verifications.Post("/:id/reject", manage, verificationHandler.Reject)
}

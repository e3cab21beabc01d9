package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/notification"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ArticleUC      *usecase.ArticleUseCase
	CustomerUC     *usecase.CustomerUseCase
	Allocate       *stock.AllocateUseCase
	RegisterEntry  *stock.RegisterEntryUseCase
	Ledger         *stock.LedgerUseCase
	NotificationUC *notification.NotificationUseCase
	CreateSale     *sales.CreateSaleUseCase
	SalePDF        *sales.PDFUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
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

	// Articles (protegido)
	articles := protected.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleUC)
	articles.Post("/", RequireRole(entity.RoleAdmin), articleHandler.Create)
	articles.Get("/", articleHandler.List)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Put("/:id", RequireRole(entity.RoleAdmin), articleHandler.Update)

	// Stock: ventas directas, entradas y libro de lotes (protegido)
	stockHandler := NewStockHandler(deps.Allocate, deps.RegisterEntry, deps.Ledger)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/sell", stockHandler.Sell)
	stockGroup.Post("/entries", stockHandler.RegisterEntry)
	articles.Get("/:id/batches", stockHandler.Batches)

	// Notifications (protegido)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/unread", notificationHandler.ListUnread)
	notifications.Post("/:id/read", notificationHandler.Acknowledge)
	notifications.Post("/read-by-name", notificationHandler.AcknowledgeByName)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SalePDF)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/analytics"
	"github.com/tu-usuario/commerce-admin/internal/application/auth"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Products    *provider.Products
	Users       *provider.Users
	Staff       *provider.Staff
	Orders      *provider.Orders
	DashboardUC *analytics.DashboardUseCase
	AuthUC      *auth.UseCase
	InvoicePDF  *pdf.OrderInvoiceGenerator
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
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/send-verification", authHandler.SendVerification)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Products)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Users / clientes (protegido)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.Users)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Staff (protegido)
	staff := protected.Group("/staff")
	staffHandler := NewStaffHandler(deps.Staff)
	staff.Get("/", staffHandler.List)
	staff.Post("/", staffHandler.Create)
	staff.Get("/:id", staffHandler.GetByID)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", staffHandler.Delete)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders, deps.InvoicePDF)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	orders.Get("/:id/pdf", orderHandler.InvoicePDF)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
}

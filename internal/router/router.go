// Package router wires repositories, services and handlers into a Fiber app.
package router

import (
	"errors"

	"go-inventory-api/internal/authz"
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/mailer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	Tokens      *jwt.Manager
	Mailer      mailer.Mailer
	Hub         *ws.Hub
	Log         *zap.Logger
	CORSOrigins string
	AccessLog   bool
}

func New(d Deps) *fiber.App {
	// Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(d.DB)
	supplierRepo := repository.NewSupplierRepo(d.DB)
	poRepo := repository.NewPurchaseOrderRepo(d.DB)
	soRepo := repository.NewSalesOrderRepo(d.DB)
	txRepo := repository.NewTransactionRepo(d.DB)
	userRepo := repository.NewUserRepo(d.DB)
	auditRepo := repository.NewAuditRepo(d.DB)

	auditService := service.NewAuditService(auditRepo)
	var hub service.Broadcaster = nopBroadcaster{}
	if d.Hub != nil {
		hub = d.Hub
	}
	notifier := service.NewNotifier(userRepo, d.Mailer, hub, d.Log)
	authService := service.NewAuthService(userRepo, d.Tokens)
	userService := service.NewUserService(d.DB, userRepo, auditService, d.Log)
	productService := service.NewProductService(d.DB, productRepo, txRepo, auditService, notifier, d.Log)
	supplierService := service.NewSupplierService(d.DB, supplierRepo, auditService, d.Log)
	orderService := service.NewOrderService(d.DB, productRepo, poRepo, soRepo, supplierRepo, txRepo, auditService, notifier, d.Log)
	ledgerService := service.NewLedgerService(txRepo)
	dashService := service.NewDashboardService(txRepo, productRepo)

	authHandler := handler.NewAuthHandler(authService, d.Log)
	userHandler := handler.NewUserHandler(userService, d.Log)
	productHandler := handler.NewProductHandler(productService, d.Log)
	supplierHandler := handler.NewSupplierHandler(supplierService, d.Log)
	orderHandler := handler.NewOrderHandler(orderService, d.Log)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, d.Log)
	dashHandler := handler.NewDashboardHandler(dashService, d.Log)
	auditHandler := handler.NewAuditHandler(auditService, d.Log)

	app := fiber.New(fiber.Config{
		AppName:      "Inventory API v1.0",
		ErrorHandler: jsonErrorHandler,
	})

	if d.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: d.CORSOrigins}))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/register", authHandler.Register)
	api.Post("/token", authHandler.Login)
	api.Post("/token/refresh", authHandler.Refresh)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService), middleware.RequirePermission(authz.PermRead))

	catalogWrite := middleware.RequirePermission(authz.PermCatalogWrite)
	poWrite := middleware.RequirePermission(authz.PermPurchaseOrderWrite)
	userAdmin := middleware.RequirePermission(authz.PermUserAdmin)

	// Profile
	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Put("/change-password", authHandler.ChangePassword)

	// User administration
	protected.Get("/users", userHandler.GetUsers)
	protected.Put("/users/:id/role", userAdmin, userHandler.ChangeRole)
	protected.Delete("/users/:id", userAdmin, userHandler.DeleteUser)

	// Dashboard
	protected.Get("/dashboard-stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Get("/products/:sku/qrcode", productHandler.GetQRCode)
	protected.Post("/products", catalogWrite, productHandler.CreateProduct)
	protected.Put("/products/:id", catalogWrite, productHandler.UpdateProduct)
	protected.Delete("/products/:id", catalogWrite, productHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", catalogWrite, productHandler.AdjustStock)

	// Suppliers
	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Post("/suppliers", catalogWrite, supplierHandler.CreateSupplier)
	protected.Put("/suppliers/:id", catalogWrite, supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", catalogWrite, supplierHandler.DeleteSupplier)

	// Purchase orders
	protected.Get("/purchase-orders", orderHandler.GetPurchaseOrders)
	protected.Get("/purchase-orders/:id", orderHandler.GetPurchaseOrder)
	protected.Post("/purchase-orders", poWrite, orderHandler.CreatePurchaseOrder)
	protected.Patch("/purchase-orders/:id", poWrite, orderHandler.UpdatePurchaseOrderStatus)
	protected.Delete("/purchase-orders/:id", poWrite, orderHandler.DeletePurchaseOrder)
	protected.Post("/purchase-orders/:id/receive", poWrite, orderHandler.ReceivePurchaseOrder)

	// Sales orders
	protected.Get("/sales-orders", orderHandler.GetSalesOrders)
	protected.Get("/sales-orders/:id", orderHandler.GetSalesOrder)
	protected.Post("/sales-orders", middleware.RequirePermission(authz.PermSalesOrderCreate), orderHandler.CreateSalesOrder)

	// Ledger
	protected.Get("/transactions", ledgerHandler.GetTransactions)
	protected.Get("/transactions/export", ledgerHandler.ExportTransactions)
	protected.Get("/transactions/:id", ledgerHandler.GetTransaction)

	// Audit
	protected.Get("/audit-logs", middleware.RequirePermission(authz.PermAuditRead), auditHandler.GetAuditLogs)

	// WebSocket Route
	if d.Hub != nil {
		app.Use("/ws", handler.WSUpgrade(authService))
		app.Get("/ws", handler.WSHandler(d.Hub))
	}

	return app
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// nopBroadcaster stands in when the app runs without a websocket hub
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastJSON(interface{}) {}

func (nopBroadcaster) SendJSONToUsers([]uuid.UUID, interface{}) {}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serranomp/fincas-api/internal/application/auth"
	"github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/application/expenses"
	"github.com/serranomp/fincas-api/internal/application/usecase"
	"github.com/serranomp/fincas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OwnerUC    *usecase.OwnerUseCase
	ClientUC   *usecase.ClientUseCase
	PropertyUC *usecase.PropertyUseCase
	InvoiceUC  *billing.InvoiceUseCase
	PDFUC      *billing.InvoicePDFUseCase
	FacturaeUC *billing.FacturaeUseCase
	BookUC     *billing.BookExportUseCase
	ExpenseUC  *expenses.ExpenseUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
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

	// Propietarios (protegido; altas y bajas solo admin)
	owners := protected.Group("/owners")
	ownerHandler := NewOwnerHandler(deps.OwnerUC)
	owners.Post("/", RequireRole(entity.RoleAdmin), ownerHandler.Create)
	owners.Get("/", ownerHandler.List)
	owners.Get("/:id", ownerHandler.GetByID)
	owners.Put("/:id", ownerHandler.Update)
	owners.Delete("/:id", RequireRole(entity.RoleAdmin), ownerHandler.Delete)

	// Inquilinos / clientes (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Inmuebles (protegido)
	properties := protected.Group("/properties")
	propertyHandler := NewPropertyHandler(deps.PropertyUC)
	properties.Post("/", propertyHandler.Create)
	properties.Get("/", propertyHandler.List)
	properties.Get("/:id", propertyHandler.GetByID)
	properties.Put("/:id", propertyHandler.Update)
	properties.Delete("/:id", RequireRole(entity.RoleAdmin), propertyHandler.Delete)

	// Facturas y recibos (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, deps.FacturaeUC, deps.BookUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/book", invoiceHandler.ExportBook)
	invoices.Post("/mark-overdue", invoiceHandler.MarkOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/refund", invoiceHandler.CreateRefund)
	invoices.Put("/:id/payment-status", invoiceHandler.UpdatePaymentStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/facturae", invoiceHandler.ExportFacturae)

	// Gastos (protegido)
	expGroup := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expGroup.Post("/", expenseHandler.Create)
	expGroup.Get("/", expenseHandler.List)
	expGroup.Get("/:id", expenseHandler.GetByID)
	expGroup.Put("/:id", expenseHandler.Update)
	expGroup.Delete("/:id", expenseHandler.Delete)
	expGroup.Post("/:id/refund", expenseHandler.CreateRefund)
	expGroup.Put("/:id/payment-status", expenseHandler.UpdatePaymentStatus)
}

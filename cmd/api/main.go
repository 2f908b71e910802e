package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/serranomp/fincas-api/internal/application/auth"
	appbilling "github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/application/expenses"
	"github.com/serranomp/fincas-api/internal/application/usecase"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	infrafacturae "github.com/serranomp/fincas-api/internal/infrastructure/facturae"
	infrapdf "github.com/serranomp/fincas-api/internal/infrastructure/pdf"
	"github.com/serranomp/fincas-api/internal/infrastructure/postgres"
	httpRouter "github.com/serranomp/fincas-api/internal/interfaces/http"
	"github.com/serranomp/fincas-api/pkg/config"
	"github.com/serranomp/fincas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ownerRepo := postgres.NewOwnerRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	propertyRepo := postgres.NewPropertyRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Tipos de IVA/IRPF: configurables, con los vigentes en España por defecto.
	policy := dombilling.DefaultRatePolicy()
	if len(cfg.Billing.VATRates) > 0 || len(cfg.Billing.IRPFRates) > 0 {
		policy = dombilling.NewRatePolicy(cfg.Billing.VATRates, cfg.Billing.IRPFRates)
	}

	invoiceUC := appbilling.NewInvoiceUseCase(invoiceRepo, txRunner, policy)
	expenseUC := expenses.NewExpenseUseCase(expenseRepo, txRunner, policy)

	ownerUC := usecase.NewOwnerUseCase(ownerRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	propertyUC := usecase.NewPropertyUseCase(propertyRepo, ownerRepo)

	// PDF: representación gráfica de facturas y recibos
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := appbilling.NewInvoicePDFUseCase(invoiceRepo, ownerRepo, clientRepo, propertyRepo, pdfGenerator)

	// Facturae: sin certificado se exporta el XML sin firmar
	cert, err := loadFacturaeCert(cfg.Facturae)
	if err != nil {
		log.Fatal().Err(err).Msg("certificado Facturae")
	}
	if len(cert.Certificate) == 0 {
		log.Warn().Msg("sin certificado Facturae: las exportaciones no irán firmadas")
	}
	exporter := infrafacturae.NewExporter(cert)
	facturaeUC := appbilling.NewFacturaeUseCase(invoiceRepo, ownerRepo, clientRepo, exporter)

	bookUC := appbilling.NewBookExportUseCase(invoiceRepo)

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
		Title:    "Fincas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OwnerUC:    ownerUC,
		ClientUC:   clientUC,
		PropertyUC: propertyUC,
		InvoiceUC:  invoiceUC,
		PDFUC:      pdfUC,
		FacturaeUC: facturaeUC,
		BookUC:     bookUC,
		ExpenseUC:  expenseUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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

// loadFacturaeCert carga el certificado de firma según la extensión del archivo.
// CertPath vacío = modo sin firma.
func loadFacturaeCert(cfg config.FacturaeConfig) (cert tls.Certificate, err error) {
	if cfg.CertPath == "" {
		return cert, nil
	}
	lower := strings.ToLower(cfg.CertPath)
	if strings.HasSuffix(lower, ".p12") || strings.HasSuffix(lower, ".pfx") {
		return infrafacturae.LoadFromP12(cfg.CertPath, cfg.CertPassword)
	}
	return infrafacturae.LoadFromPEM(cfg.CertPath, cfg.CertKeyPath)
}

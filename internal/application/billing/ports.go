package billing

import (
	"context"

	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// BillingTxRunner ejecuta fn dentro de una única transacción de base de
// datos, con repos atados a la transacción y el locker de familia. La
// atomicidad lógica de asignar consecutivo + comprobar duplicados + insertar
// la garantiza la capa de persistencia, no el motor.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invRepo repository.InvoiceRepository,
		expRepo repository.ExpenseRepository,
		locker repository.FamilyLocker,
	) error) error
}

// InvoicePDFGenerator renderiza la representación gráfica de una factura.
// El motor solo le entrega un registro completo con todos los derivados.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, owner *entity.Owner,
		client *entity.Client, property *entity.Property) ([]byte, error)
}

// FacturaeExporter genera el XML Facturae de una factura emitida,
// opcionalmente firmado XAdES.
type FacturaeExporter interface {
	Export(inv *entity.Invoice, owner *entity.Owner, client *entity.Client) ([]byte, error)
}

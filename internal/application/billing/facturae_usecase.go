package billing

import (
	"context"
	"fmt"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// FacturaeUseCase exporta una factura emitida como XML Facturae.
// Solo las facturas emitidas tienen representación Facturae; recibos y
// facturas recibidas se rechazan con StateError.
type FacturaeUseCase struct {
	invoiceRepo repository.InvoiceRepository
	ownerRepo   repository.OwnerRepository
	clientRepo  repository.ClientRepository
	exporter    FacturaeExporter
}

// NewFacturaeUseCase construye el caso de uso.
func NewFacturaeUseCase(invoiceRepo repository.InvoiceRepository, ownerRepo repository.OwnerRepository,
	clientRepo repository.ClientRepository, exporter FacturaeExporter) *FacturaeUseCase {
	return &FacturaeUseCase{invoiceRepo: invoiceRepo, ownerRepo: ownerRepo, clientRepo: clientRepo, exporter: exporter}
}

// Export devuelve el XML Facturae y un nombre de fichero sugerido.
func (uc *FacturaeUseCase) Export(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", &domain.NotFoundError{Resource: "documento", ID: id}
	}
	if inv.Kind != entity.InvoiceEmitida {
		return nil, "", &domain.StateError{Reason: "solo las facturas emitidas se exportan a Facturae"}
	}
	owner, err := uc.ownerRepo.GetByID(inv.OwnerID)
	if err != nil {
		return nil, "", err
	}
	if owner == nil {
		return nil, "", &domain.NotFoundError{Resource: "propietario", ID: inv.OwnerID}
	}
	var client *entity.Client
	if inv.ClientID != "" {
		if client, err = uc.clientRepo.GetByID(inv.ClientID); err != nil {
			return nil, "", err
		}
	}

	xml, err := uc.exporter.Export(inv, owner, client)
	if err != nil {
		return nil, "", fmt.Errorf("exportar Facturae: %w", err)
	}
	return xml, inv.Number + ".xsig.xml", nil
}

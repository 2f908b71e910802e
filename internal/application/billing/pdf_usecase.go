package billing

import (
	"context"
	"fmt"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// InvoicePDFUseCase compone el registro completo de la factura con sus
// sujetos y delega el renderizado al generador.
type InvoicePDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	ownerRepo    repository.OwnerRepository
	clientRepo   repository.ClientRepository
	propertyRepo repository.PropertyRepository
	generator    InvoicePDFGenerator
}

// NewInvoicePDFUseCase construye el caso de uso.
func NewInvoicePDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	ownerRepo repository.OwnerRepository,
	clientRepo repository.ClientRepository,
	propertyRepo repository.PropertyRepository,
	generator InvoicePDFGenerator,
) *InvoicePDFUseCase {
	return &InvoicePDFUseCase{
		invoiceRepo:  invoiceRepo,
		ownerRepo:    ownerRepo,
		clientRepo:   clientRepo,
		propertyRepo: propertyRepo,
		generator:    generator,
	}
}

// Generate devuelve los bytes del PDF y un nombre de fichero sugerido.
func (uc *InvoicePDFUseCase) Generate(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", &domain.NotFoundError{Resource: "documento", ID: id}
	}
	owner, err := uc.ownerRepo.GetByID(inv.OwnerID)
	if err != nil {
		return nil, "", err
	}
	var client *entity.Client
	if inv.ClientID != "" {
		if client, err = uc.clientRepo.GetByID(inv.ClientID); err != nil {
			return nil, "", err
		}
	}
	property, err := uc.propertyRepo.GetByID(inv.PropertyID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := uc.generator.GenerateInvoicePDF(ctx, inv, owner, client, property)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return pdf, inv.Number + ".pdf", nil
}

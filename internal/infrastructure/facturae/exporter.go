package facturae

import (
	"crypto/tls"
	"fmt"

	appbilling "github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
)

var _ appbilling.FacturaeExporter = (*Exporter)(nil)

// Exporter implementa billing.FacturaeExporter: construye el XML y, si hay
// certificado cargado, lo firma. Sin certificado exporta sin firmar.
type Exporter struct {
	builder *XMLBuilder
	signer  *Signer
	cert    tls.Certificate
	signing bool
}

// NewExporter construye el exportador. Con cert vacío no se firma.
func NewExporter(cert tls.Certificate) *Exporter {
	return &Exporter{
		builder: NewXMLBuilder(),
		signer:  NewSigner(),
		cert:    cert,
		signing: len(cert.Certificate) > 0,
	}
}

// Export genera el XML Facturae de la factura.
func (e *Exporter) Export(inv *entity.Invoice, owner *entity.Owner, client *entity.Client) ([]byte, error) {
	xmlBytes, err := e.builder.Build(inv, owner, client)
	if err != nil {
		return nil, fmt.Errorf("construir Facturae: %w", err)
	}
	if !e.signing {
		return xmlBytes, nil
	}
	signed, err := e.signer.Sign(xmlBytes, e.cert)
	if err != nil {
		return nil, fmt.Errorf("firmar Facturae: %w", err)
	}
	return signed, nil
}

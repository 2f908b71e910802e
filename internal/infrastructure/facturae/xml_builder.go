// Package facturae genera el XML Facturae 3.2.2 de las facturas emitidas,
// opcionalmente firmado XAdES-EPES con la política de firma de Facturae.
package facturae

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/serranomp/fincas-api/internal/domain/entity"
)

// Namespaces del esquema Facturae 3.2.2 y de la firma.
const (
	NsFacturae = "http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml"
	NsDs       = "http://www.w3.org/2000/09/xmldsig#"

	schemaVersion = "3.2.2"
)

// XMLBuilder construye el documento Facturae (sin firma).
type XMLBuilder struct{}

// NewXMLBuilder crea el builder.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{}
}

// Build genera el XML Facturae de una factura con su emisor y destinatario.
// client puede ser nil (factura simplificada, sin destinatario identificado).
func (b *XMLBuilder) Build(inv *entity.Invoice, owner *entity.Owner, client *entity.Client) ([]byte, error) {
	if inv == nil || owner == nil {
		return nil, fmt.Errorf("facturae: faltan factura o emisor")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("fe:Facturae")
	root.CreateAttr("xmlns:fe", NsFacturae)
	root.CreateAttr("xmlns:ds", NsDs)

	b.writeFileHeader(root, inv)
	b.writeParties(root, owner, client)
	b.writeInvoice(root.CreateElement("Invoices"), inv)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeFileHeader: cabecera del lote. Cada exportación lleva una sola factura.
func (b *XMLBuilder) writeFileHeader(root *etree.Element, inv *entity.Invoice) {
	fh := root.CreateElement("FileHeader")
	fh.CreateElement("SchemaVersion").SetText(schemaVersion)
	fh.CreateElement("Modality").SetText("I") // Individual
	fh.CreateElement("InvoiceIssuerType").SetText("EM")

	batch := fh.CreateElement("Batch")
	batch.CreateElement("BatchIdentifier").SetText(inv.Number)
	batch.CreateElement("InvoicesCount").SetText("1")
	amount(batch.CreateElement("TotalInvoicesAmount"), inv.Total)
	amount(batch.CreateElement("TotalOutstandingAmount"), inv.Total)
	amount(batch.CreateElement("TotalExecutableAmount"), inv.Total)
	batch.CreateElement("InvoiceCurrencyCode").SetText("EUR")
}

func (b *XMLBuilder) writeParties(root *etree.Element, owner *entity.Owner, client *entity.Client) {
	parties := root.CreateElement("Parties")

	seller := parties.CreateElement("SellerParty")
	writeTaxIdentification(seller, owner.NIF)
	writeIndividual(seller, owner.Name, owner.Address, owner.PostCode, owner.City, owner.Province)

	buyer := parties.CreateElement("BuyerParty")
	if client != nil {
		writeTaxIdentification(buyer, client.NIF)
		writeIndividual(buyer, client.Name, client.Address, client.PostCode, client.City, client.Province)
	} else {
		// Factura simplificada: destinatario genérico sin NIF.
		writeTaxIdentification(buyer, "")
		writeIndividual(buyer, "Consumidor final", "", "", "", "")
	}
}

func (b *XMLBuilder) writeInvoice(invoices *etree.Element, inv *entity.Invoice) {
	invoice := invoices.CreateElement("Invoice")

	header := invoice.CreateElement("InvoiceHeader")
	header.CreateElement("InvoiceNumber").SetText(inv.Number)
	header.CreateElement("InvoiceDocumentType").SetText("FC")
	if inv.IsRefund {
		header.CreateElement("InvoiceClass").SetText("OR") // rectificativa
		corrective := header.CreateElement("Corrective")
		corrective.CreateElement("ReasonCode").SetText("01")
		corrective.CreateElement("ReasonDescription").SetText("Número de la factura")
		corrective.CreateElement("CorrectionMethod").SetText("01")
		corrective.CreateElement("CorrectionMethodDescription").SetText("Rectificación íntegra")
	} else {
		header.CreateElement("InvoiceClass").SetText("OO") // original
	}

	issue := invoice.CreateElement("InvoiceIssueData")
	issue.CreateElement("IssueDate").SetText(inv.IssueDate.Format("2006-01-02"))
	issue.CreateElement("InvoiceCurrencyCode").SetText("EUR")
	issue.CreateElement("TaxCurrencyCode").SetText("EUR")
	issue.CreateElement("LanguageName").SetText("es")

	// IVA repercutido.
	outputs := invoice.CreateElement("TaxesOutputs")
	vat := outputs.CreateElement("Tax")
	vat.CreateElement("TaxTypeCode").SetText("01") // IVA
	vat.CreateElement("TaxRate").SetText(inv.VATRate.StringFixed(2))
	amount(vat.CreateElement("TaxableBase"), inv.TaxBase)
	amount(vat.CreateElement("TaxAmount"), inv.VATAmount)

	// Retención de IRPF, solo si la factura la practica.
	if !inv.IRPFRate.IsZero() {
		withheld := invoice.CreateElement("TaxesWithheld")
		irpf := withheld.CreateElement("Tax")
		irpf.CreateElement("TaxTypeCode").SetText("04") // IRPF
		irpf.CreateElement("TaxRate").SetText(inv.IRPFRate.StringFixed(2))
		amount(irpf.CreateElement("TaxableBase"), inv.TaxBase)
		amount(irpf.CreateElement("TaxAmount"), inv.IRPFAmount)
	}

	totals := invoice.CreateElement("InvoiceTotals")
	totals.CreateElement("TotalGrossAmount").SetText(inv.TaxBase.StringFixed(2))
	totals.CreateElement("TotalGrossAmountBeforeTaxes").SetText(inv.TaxBase.StringFixed(2))
	totals.CreateElement("TotalTaxOutputs").SetText(inv.VATAmount.StringFixed(2))
	totals.CreateElement("TotalTaxesWithheld").SetText(inv.IRPFAmount.StringFixed(2))
	totals.CreateElement("InvoiceTotal").SetText(inv.Total.StringFixed(2))
	totals.CreateElement("TotalOutstandingAmount").SetText(inv.Total.StringFixed(2))
	totals.CreateElement("TotalExecutableAmount").SetText(inv.Total.StringFixed(2))

	items := invoice.CreateElement("Items")
	line := items.CreateElement("InvoiceLine")
	line.CreateElement("ItemDescription").SetText(lineDescription(inv))
	line.CreateElement("Quantity").SetText("1")
	line.CreateElement("UnitOfMeasure").SetText("01")
	line.CreateElement("UnitPriceWithoutTax").SetText(inv.TaxBase.StringFixed(6))
	line.CreateElement("TotalCost").SetText(inv.TaxBase.StringFixed(6))
	line.CreateElement("GrossAmount").SetText(inv.TaxBase.StringFixed(6))
}

// lineDescription: concepto más el detalle de prorrateo cuando aplica.
func lineDescription(inv *entity.Invoice) string {
	desc := inv.Concept
	if desc == "" {
		desc = "Factura " + inv.Number
	}
	if inv.Proportional && inv.PeriodStart != nil && inv.PeriodEnd != nil {
		desc += fmt.Sprintf(" (periodo %s a %s, %d/%d días)",
			inv.PeriodStart.Format("02/01/2006"), inv.PeriodEnd.Format("02/01/2006"),
			inv.DaysBilled, inv.DaysInMonth)
	}
	return desc
}

func writeTaxIdentification(party *etree.Element, nif string) {
	ti := party.CreateElement("TaxIdentification")
	ti.CreateElement("PersonTypeCode").SetText(personTypeCode(nif))
	ti.CreateElement("ResidenceTypeCode").SetText("R")
	ti.CreateElement("TaxIdentificationNumber").SetText(nif)
}

// personTypeCode: J si el NIF es de persona jurídica (empieza por letra), F si no.
func personTypeCode(nif string) string {
	if nif == "" {
		return "F"
	}
	c := nif[0]
	if c >= 'A' && c <= 'Z' && !strings.ContainsRune("KLMXYZ", rune(c)) {
		return "J"
	}
	return "F"
}

func writeIndividual(party *etree.Element, name, address, postCode, town, province string) {
	ind := party.CreateElement("Individual")
	ind.CreateElement("Name").SetText(name)
	if address != "" {
		addr := ind.CreateElement("AddressInSpain")
		addr.CreateElement("Address").SetText(address)
		addr.CreateElement("PostCode").SetText(postCode)
		addr.CreateElement("Town").SetText(town)
		addr.CreateElement("Province").SetText(province)
		addr.CreateElement("CountryCode").SetText("ESP")
	}
}

func amount(el *etree.Element, d decimal.Decimal) {
	el.CreateElement("TotalAmount").SetText(d.StringFixed(2))
}

// Package pdf implementa la representación gráfica de las facturas y recibos
// de alquiler.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Propietario + NIF  │  N° Documento + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: Inquilino/Cliente + NIF + contacto           │
//	│  INMUEBLE: Alias + Dirección + Ref. catastral               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONCEPTO + periodo prorrateado si aplica                   │
//	│  TOTALES: Base / IVA / IRPF / TOTAL                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado de cobro + leyenda rectificativa            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/serranomp/fincas-api/internal/application/billing"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 80, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	owner *entity.Owner,
	client *entity.Client,
	property *entity.Property,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(invoice)+" "+invoice.Number, true).
		WithAuthor(owner.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, owner))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(client))
	m.AddRows(propertyRow(property))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(conceptRows(invoice)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// documentTitle devuelve el rótulo según la familia del documento.
func documentTitle(invoice *entity.Invoice) string {
	if invoice.IsRefund {
		return "FACTURA RECTIFICATIVA"
	}
	switch invoice.Kind {
	case entity.InvoiceRecibo:
		return "RECIBO DE ALQUILER"
	case entity.InvoiceRecibida:
		return "FACTURA RECIBIDA"
	default:
		return "FACTURA"
	}
}

// headerRow: propietario + NIF (izq) y N° documento + fecha (der).
func headerRow(invoice *entity.Invoice, owner *entity.Owner) core.Row {
	fecha := invoice.IssueDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(owner.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIF: "+owner.NIF, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(documentTitle(invoice), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// recipientRow: datos del destinatario. Las facturas recibidas no lo tienen.
func recipientRow(client *entity.Client) core.Row {
	if client == nil {
		return row.New(6).Add(col.New(12).Add(
			text.New("DESTINATARIO: —", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIF: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(client.NIF, "—"),
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// propertyRow: inmueble al que se imputa el documento.
func propertyRow(property *entity.Property) core.Row {
	if property == nil {
		return row.New(2)
	}
	addr := property.Address
	if property.City != "" {
		addr += ", " + property.City
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("INMUEBLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   %s   |   Ref. catastral: %s",
				property.Alias,
				nonEmpty(addr, "—"),
				nonEmpty(property.CadastralRef, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// conceptRows: concepto facturado más el detalle de prorrateo si aplica.
func conceptRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("CONCEPTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Concept, props.Text{Size: 9, Top: 7}),
		)),
	}
	if invoice.Proportional && invoice.PeriodStart != nil && invoice.PeriodEnd != nil {
		detail := fmt.Sprintf("Periodo %s a %s: %d de %d días (%s%%), mes %s",
			invoice.PeriodStart.Format("02/01/2006"),
			invoice.PeriodEnd.Format("02/01/2006"),
			invoice.DaysBilled, invoice.DaysInMonth,
			invoice.ProportionPercent.StringFixed(2),
			invoice.AccountingMonth(),
		)
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(detail, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

// totalsRow: base, IVA, IRPF y total alineados a la derecha.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(4).Add(
			label("Base imponible:"),
			label(fmt.Sprintf("IVA (%s%%):", invoice.VATRate.String())),
			label(fmt.Sprintf("IRPF (%s%%):", invoice.IRPFRate.String())),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value(formatEuros(invoice.TaxBase)),
			value(formatEuros(invoice.VATAmount)),
			value(formatEuros(invoice.IRPFAmount.Neg())),
			grandValue(formatEuros(invoice.Total)),
		),
		col.New(1),
	)
}

// footerRows: estado de cobro y leyendas legales.
func footerRows(invoice *entity.Invoice) []core.Row {
	estado := "Estado de cobro: " + invoice.PaymentStatus
	if invoice.PaymentStatus == dombilling.StatusCobrada && invoice.PaymentDate != nil {
		estado += " el " + invoice.PaymentDate.Format("02/01/2006")
		if invoice.PaymentMethod != "" {
			estado += " (" + strings.ToLower(invoice.PaymentMethod) + ")"
		}
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(estado, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
	if invoice.IsRefund {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Factura rectificativa por sustitución del documento original.", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Color: colorPrimary,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"IVA repercutido y retención de IRPF practicada conforme a la Ley 37/1992 "+
				"y al Real Decreto 439/2007. Conserve este documento como soporte fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatEuros renderiza un importe con coma decimal y puntos de miles.
// Ej: 1234.5 → "1.234,50 €"
func formatEuros(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, decPart, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	b.WriteString("," + decPart + " €")
	return b.String()
}

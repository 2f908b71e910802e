package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Familias de documento de facturación. Cada familia tiene su propio
// consecutivo y su propia regla de duplicados.
type InvoiceKind string

const (
	InvoiceEmitida  InvoiceKind = "EMITIDA"  // Factura emitida al inquilino/cliente
	InvoiceRecibida InvoiceKind = "RECIBIDA" // Factura recibida de un proveedor
	InvoiceRecibo   InvoiceKind = "RECIBO"   // Recibo de alquiler (mensualidad)
)

// ValidInvoiceKind indica si el valor pertenece a la enumeración cerrada.
func ValidInvoiceKind(k InvoiceKind) bool {
	switch k {
	case InvoiceEmitida, InvoiceRecibida, InvoiceRecibo:
		return true
	}
	return false
}

// Invoice representa una factura o recibo de alquiler.
// Total, VATAmount e IRPFAmount son derivados: siempre se recalculan a partir
// de TaxBase y los tipos; nunca los aporta el llamante.
type Invoice struct {
	ID         string
	Kind       InvoiceKind
	Number     string // Consecutivo legible por familia (ej. FACT-0001)
	OwnerID    string
	ClientID   string
	PropertyID string
	Concept    string
	IssueDate  time.Time
	DueDate    *time.Time

	TaxBase    decimal.Decimal // Base imponible; en proporcionales, la fracción del periodo
	VATRate    decimal.Decimal // IVA en porcentaje (0-100)
	IRPFRate   decimal.Decimal // Retención IRPF en porcentaje (0-100)
	VATAmount  decimal.Decimal
	IRPFAmount decimal.Decimal
	Total      decimal.Decimal

	// Facturación proporcional por días.
	Proportional       bool
	PeriodStart        *time.Time
	PeriodEnd          *time.Time
	CorrespondingMonth string // YYYY-MM, mes contable al que se imputa
	DaysBilled         int
	DaysInMonth        int
	ProportionPercent  decimal.Decimal

	// Abonos (facturas rectificativas).
	IsRefund   bool
	OriginalID string // ID del documento original cuando IsRefund

	// Estado de cobro.
	PaymentStatus    string
	PaymentDate      *time.Time
	PaymentMethod    string
	PaymentReference string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubjectKey identifica el sujeto a efectos de duplicados: (propietario, inmueble).
func (i *Invoice) SubjectKey() string {
	return i.OwnerID + "/" + i.PropertyID
}

// AccountingMonth devuelve el mes contable YYYY-MM: CorrespondingMonth si está
// informado, si no el mes de la fecha de emisión.
func (i *Invoice) AccountingMonth() string {
	if i.CorrespondingMonth != "" {
		return i.CorrespondingMonth
	}
	return i.IssueDate.Format("2006-01")
}

package dto

import "github.com/shopspring/decimal"

// Las fechas viajan como YYYY-MM-DD y los meses contables como YYYY-MM.

// CreateInvoiceRequest alta de factura o recibo. El total nunca se acepta del
// cliente: siempre lo calcula el servidor.
type CreateInvoiceRequest struct {
	Kind               string          `json:"kind"` // EMITIDA | RECIBIDA | RECIBO
	OwnerID            string          `json:"owner_id"`
	ClientID           string          `json:"client_id"`
	PropertyID         string          `json:"property_id"`
	Concept            string          `json:"concept"`
	IssueDate          string          `json:"issue_date"`
	DueDate            string          `json:"due_date"`
	TaxBase            decimal.Decimal `json:"tax_base"`
	VATRate            decimal.Decimal `json:"vat_rate"`
	IRPFRate           decimal.Decimal `json:"irpf_rate"`
	Proportional       bool            `json:"proportional"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	CorrespondingMonth string          `json:"corresponding_month"`
}

// UpdateInvoiceRequest modificación parcial: los campos a nil conservan el
// valor almacenado. El inmueble es inmutable tras la creación y por eso no
// aparece aquí.
type UpdateInvoiceRequest struct {
	Number             *string          `json:"number"`
	ClientID           *string          `json:"client_id"`
	Concept            *string          `json:"concept"`
	IssueDate          *string          `json:"issue_date"`
	DueDate            *string          `json:"due_date"`
	TaxBase            *decimal.Decimal `json:"tax_base"`
	VATRate            *decimal.Decimal `json:"vat_rate"`
	IRPFRate           *decimal.Decimal `json:"irpf_rate"`
	PeriodStart        *string          `json:"period_start"`
	PeriodEnd          *string          `json:"period_end"`
	CorrespondingMonth *string          `json:"corresponding_month"`
}

// RefundInvoiceRequest alta de abono a partir de un documento original.
type RefundInvoiceRequest struct {
	IssueDate string `json:"issue_date"` // Vacío = hoy
	Concept   string `json:"concept"`
}

// PaymentStatusRequest cambio de estado de cobro.
type PaymentStatusRequest struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// InvoiceResponse representación completa con todos los derivados, estable
// para los renderizadores (PDF, Facturae).
type InvoiceResponse struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Number             string          `json:"number"`
	OwnerID            string          `json:"owner_id"`
	ClientID           string          `json:"client_id,omitempty"`
	PropertyID         string          `json:"property_id"`
	Concept            string          `json:"concept,omitempty"`
	IssueDate          string          `json:"issue_date"`
	DueDate            string          `json:"due_date,omitempty"`
	TaxBase            decimal.Decimal `json:"tax_base"`
	VATRate            decimal.Decimal `json:"vat_rate"`
	IRPFRate           decimal.Decimal `json:"irpf_rate"`
	VATAmount          decimal.Decimal `json:"vat_amount"`
	IRPFAmount         decimal.Decimal `json:"irpf_amount"`
	Total              decimal.Decimal `json:"total"`
	Proportional       bool            `json:"proportional"`
	PeriodStart        string          `json:"period_start,omitempty"`
	PeriodEnd          string          `json:"period_end,omitempty"`
	CorrespondingMonth string          `json:"corresponding_month,omitempty"`
	DaysBilled         int             `json:"days_billed,omitempty"`
	DaysInMonth        int             `json:"days_in_month,omitempty"`
	ProportionPercent  decimal.Decimal `json:"proportion_percent"`
	IsRefund           bool            `json:"is_refund"`
	OriginalID         string          `json:"original_id,omitempty"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentDate        string          `json:"payment_date,omitempty"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
	PaymentReference   string          `json:"payment_reference,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}

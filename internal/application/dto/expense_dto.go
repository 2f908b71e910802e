package dto

import "github.com/shopspring/decimal"

// CostLinesDTO desglose de conceptos de un gasto.
type CostLinesDTO struct {
	Rent        decimal.Decimal `json:"rent"`
	Electricity decimal.Decimal `json:"electricity"`
	Gas         decimal.Decimal `json:"gas"`
	Water       decimal.Decimal `json:"water"`
	Community   decimal.Decimal `json:"community"`
	Insurance   decimal.Decimal `json:"insurance"`
	Waste       decimal.Decimal `json:"waste"`
	Other       decimal.Decimal `json:"other"`
}

// CreateExpenseRequest alta de gasto. La base imponible se deriva de la suma
// de líneas; no se acepta del cliente.
type CreateExpenseRequest struct {
	Kind               string          `json:"kind"` // ALQUILER | INTERNO
	OwnerID            string          `json:"owner_id"`
	PropertyID         string          `json:"property_id"`
	Concept            string          `json:"concept"`
	IssueDate          string          `json:"issue_date"`
	Lines              CostLinesDTO    `json:"lines"`
	VATRate            decimal.Decimal `json:"vat_rate"`
	IRPFRate           decimal.Decimal `json:"irpf_rate"`
	Proportional       bool            `json:"proportional"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	CorrespondingMonth string          `json:"corresponding_month"`
}

// UpdateExpenseRequest modificación parcial de un gasto.
type UpdateExpenseRequest struct {
	Number             *string          `json:"number"`
	Concept            *string          `json:"concept"`
	IssueDate          *string          `json:"issue_date"`
	Lines              *CostLinesDTO    `json:"lines"`
	VATRate            *decimal.Decimal `json:"vat_rate"`
	IRPFRate           *decimal.Decimal `json:"irpf_rate"`
	PeriodStart        *string          `json:"period_start"`
	PeriodEnd          *string          `json:"period_end"`
	CorrespondingMonth *string          `json:"corresponding_month"`
}

// ExpenseResponse representación completa de un gasto.
type ExpenseResponse struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Number             string          `json:"number"`
	OwnerID            string          `json:"owner_id"`
	PropertyID         string          `json:"property_id"`
	Concept            string          `json:"concept,omitempty"`
	IssueDate          string          `json:"issue_date"`
	Lines              CostLinesDTO    `json:"lines"`
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
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Familias de gasto.
type ExpenseKind string

const (
	ExpenseAlquiler ExpenseKind = "ALQUILER" // Gasto repercutible de un alquiler
	ExpenseInterno  ExpenseKind = "INTERNO"  // Gasto interno de la gestión
)

// ValidExpenseKind indica si el valor pertenece a la enumeración cerrada.
func ValidExpenseKind(k ExpenseKind) bool {
	return k == ExpenseAlquiler || k == ExpenseInterno
}

// CostLines desglosa un gasto en sus conceptos individuales. La regla de
// duplicados compara línea a línea, no el registro completo.
type CostLines struct {
	Rent        decimal.Decimal // Renta
	Electricity decimal.Decimal // Luz
	Gas         decimal.Decimal
	Water       decimal.Decimal // Agua
	Community   decimal.Decimal // Comunidad
	Insurance   decimal.Decimal // Seguro
	Waste       decimal.Decimal // Tasa de basuras
	Other       decimal.Decimal // Otros
}

// Sum devuelve la suma de todas las líneas (la base imponible del gasto).
func (c CostLines) Sum() decimal.Decimal {
	return c.Rent.Add(c.Electricity).Add(c.Gas).Add(c.Water).
		Add(c.Community).Add(c.Insurance).Add(c.Waste).Add(c.Other)
}

// Slice devuelve las líneas en orden fijo (renta, luz, gas, agua, comunidad,
// seguro, basuras, otros) para recorridos genéricos.
func (c CostLines) Slice() []decimal.Decimal {
	return []decimal.Decimal{c.Rent, c.Electricity, c.Gas, c.Water, c.Community, c.Insurance, c.Waste, c.Other}
}

// Negate devuelve cada línea como -abs(valor). Las líneas a cero quedan a cero,
// por eso no sirve un cambio de signo global sobre la suma.
func (c CostLines) Negate() CostLines {
	neg := func(d decimal.Decimal) decimal.Decimal { return d.Abs().Neg() }
	return CostLines{
		Rent:        neg(c.Rent),
		Electricity: neg(c.Electricity),
		Gas:         neg(c.Gas),
		Water:       neg(c.Water),
		Community:   neg(c.Community),
		Insurance:   neg(c.Insurance),
		Waste:       neg(c.Waste),
		Other:       neg(c.Other),
	}
}

// Expense representa un gasto (de alquiler o interno) imputado a un inmueble.
type Expense struct {
	ID         string
	Kind       ExpenseKind
	Number     string
	OwnerID    string
	PropertyID string
	Concept    string
	IssueDate  time.Time

	Lines      CostLines
	TaxBase    decimal.Decimal // Derivada: suma de líneas (prorrateada si aplica)
	VATRate    decimal.Decimal
	IRPFRate   decimal.Decimal
	VATAmount  decimal.Decimal
	IRPFAmount decimal.Decimal
	Total      decimal.Decimal

	Proportional       bool
	PeriodStart        *time.Time
	PeriodEnd          *time.Time
	CorrespondingMonth string
	DaysBilled         int
	DaysInMonth        int
	ProportionPercent  decimal.Decimal

	IsRefund   bool
	OriginalID string

	PaymentStatus    string
	PaymentDate      *time.Time
	PaymentMethod    string
	PaymentReference string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountingMonth devuelve el mes contable YYYY-MM del gasto.
func (e *Expense) AccountingMonth() string {
	if e.CorrespondingMonth != "" {
		return e.CorrespondingMonth
	}
	return e.IssueDate.Format("2006-01")
}

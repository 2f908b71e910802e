package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/serranomp/fincas-api/internal/domain"
)

// Proration es el resultado del prorrateo por días de un periodo de
// facturación dentro de su mes contable.
type Proration struct {
	OriginalBase      decimal.Decimal // Base del periodo completo
	ProratedBase      decimal.Decimal // Fracción facturable, redondeada a 2 decimales
	DaysBilled        int
	DaysInMonth       int
	ProportionPercent decimal.Decimal
	VATAmount         decimal.Decimal
	IRPFAmount        decimal.Decimal
	Total             decimal.Decimal
}

// Prorate calcula la fracción facturable de base para el periodo [start, end],
// ambos extremos incluidos, y los importes resultantes.
//
// Si falta alguna fecha devuelve el resultado equivalente al periodo completo
// (100%). La validación del periodo (start < end, máximo 31 días) corresponde
// al orquestador vía ValidatePeriod antes de llamar aquí.
//
// La longitud del mes se toma SIEMPRE del mes de periodStart, también cuando
// el periodo cruza de mes. Es una regla de negocio heredada: corregirla
// cambiaría totales de documentos ya emitidos, así que se conserva tal cual.
func Prorate(base, vatRate, irpfRate decimal.Decimal, start, end *time.Time) Proration {
	if start == nil || end == nil {
		return Proration{
			OriginalBase:      base,
			ProratedBase:      base,
			ProportionPercent: hundred,
			VATAmount:         VATAmount(base, vatRate),
			IRPFAmount:        IRPFAmount(base, irpfRate),
			Total:             Total(base, vatRate, irpfRate),
		}
	}

	days := DaysBilled(*start, *end)
	dim := DaysInMonth(*start)
	daysDec := decimal.NewFromInt(int64(days))
	dimDec := decimal.NewFromInt(int64(dim))

	prorated := base.Mul(daysDec).Div(dimDec).Round(2)
	return Proration{
		OriginalBase:      base,
		ProratedBase:      prorated,
		DaysBilled:        days,
		DaysInMonth:       dim,
		ProportionPercent: daysDec.Div(dimDec).Mul(hundred).Round(2),
		VATAmount:         VATAmount(prorated, vatRate),
		IRPFAmount:        IRPFAmount(prorated, irpfRate),
		Total:             Total(prorated, vatRate, irpfRate),
	}
}

// DaysBilled cuenta los días del periodo incluyendo ambos extremos:
// ceil((end-start)/24h) + 1.
func DaysBilled(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// DaysInMonth devuelve la longitud del mes natural que contiene t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}

// ValidatePeriod comprueba las precondiciones de un periodo proporcional:
// ambas fechas presentes, inicio estrictamente anterior al fin y periodo de
// 31 días como máximo.
func ValidatePeriod(start, end *time.Time) error {
	if start == nil {
		return domain.Validationf("period_start", "requerido para facturación proporcional")
	}
	if end == nil {
		return domain.Validationf("period_end", "requerido para facturación proporcional")
	}
	if !start.Before(*end) {
		return domain.Validationf("period_end", "debe ser posterior a period_start")
	}
	if DaysBilled(*start, *end) > 31 {
		return domain.Validationf("period_end", "el periodo no puede superar 31 días")
	}
	return nil
}

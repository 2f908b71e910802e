package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/billing"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// TestDaysBilled_Inclusivo: el recuento incluye ambos extremos.
func TestDaysBilled_Inclusivo(t *testing.T) {
	assert.Equal(t, 15, billing.DaysBilled(day("2025-07-17"), day("2025-07-31")))
	assert.Equal(t, 1, billing.DaysBilled(day("2025-07-17"), day("2025-07-17")))
	assert.Equal(t, 31, billing.DaysBilled(day("2025-07-01"), day("2025-07-31")))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, billing.DaysInMonth(day("2025-07-15")))
	assert.Equal(t, 30, billing.DaysInMonth(day("2025-06-01")))
	assert.Equal(t, 28, billing.DaysInMonth(day("2025-02-10")))
	assert.Equal(t, 29, billing.DaysInMonth(day("2024-02-10")))
}

// TestProrate_MedioJulio reproduce el ejemplo de referencia: 1000 € de renta,
// IVA 21, IRPF 15, del 17 al 31 de julio de 2025.
func TestProrate_MedioJulio(t *testing.T) {
	p := billing.Prorate(dec("1000"), dec("21"), dec("15"), dayPtr("2025-07-17"), dayPtr("2025-07-31"))

	assert.Equal(t, 15, p.DaysBilled)
	assert.Equal(t, 31, p.DaysInMonth)
	assert.Equal(t, "48.39", p.ProportionPercent.StringFixed(2))
	assert.Equal(t, "483.87", p.ProratedBase.StringFixed(2))
	assert.Equal(t, "101.61", p.VATAmount.StringFixed(2))
	assert.Equal(t, "72.58", p.IRPFAmount.StringFixed(2))
	assert.Equal(t, "512.90", p.Total.StringFixed(2))
	assert.Equal(t, "1000", p.OriginalBase.String())
}

// TestProrate_MesCompleto: primer a último día del mes => 100% y base intacta.
func TestProrate_MesCompleto(t *testing.T) {
	p := billing.Prorate(dec("950"), dec("21"), dec("0"), dayPtr("2025-06-01"), dayPtr("2025-06-30"))
	assert.Equal(t, "100.00", p.ProportionPercent.StringFixed(2))
	assert.Equal(t, "950.00", p.ProratedBase.StringFixed(2))
	assert.Equal(t, "1149.50", p.Total.StringFixed(2))
}

// TestProrate_SinFechas: falta alguna fecha => resultado de periodo completo.
func TestProrate_SinFechas(t *testing.T) {
	p := billing.Prorate(dec("700"), dec("10"), dec("0"), nil, nil)
	assert.Equal(t, "100", p.ProportionPercent.String())
	assert.Equal(t, "700", p.ProratedBase.String())
	assert.Equal(t, "770.00", p.Total.StringFixed(2))
	assert.Zero(t, p.DaysBilled)
}

// TestProrate_CruceDeMes documenta la regla heredada: la longitud del mes se
// toma del mes de inicio aunque el periodo termine en el siguiente.
func TestProrate_CruceDeMes(t *testing.T) {
	// 25-feb a 6-mar de 2025: 10 días contra los 28 de febrero.
	p := billing.Prorate(dec("1000"), dec("0"), dec("0"), dayPtr("2025-02-25"), dayPtr("2025-03-06"))
	assert.Equal(t, 10, p.DaysBilled)
	assert.Equal(t, 28, p.DaysInMonth)
	assert.Equal(t, "357.14", p.ProratedBase.StringFixed(2))
}

// TestProrate_Pura: dos llamadas idénticas, resultados idénticos.
func TestProrate_Pura(t *testing.T) {
	a := billing.Prorate(dec("1000"), dec("21"), dec("15"), dayPtr("2025-07-17"), dayPtr("2025-07-31"))
	b := billing.Prorate(dec("1000"), dec("21"), dec("15"), dayPtr("2025-07-17"), dayPtr("2025-07-31"))
	assert.Equal(t, a, b)
}

func TestValidatePeriod(t *testing.T) {
	t.Run("válido", func(t *testing.T) {
		require.NoError(t, billing.ValidatePeriod(dayPtr("2025-07-01"), dayPtr("2025-07-31")))
	})
	t.Run("inicio igual a fin", func(t *testing.T) {
		err := billing.ValidatePeriod(dayPtr("2025-07-17"), dayPtr("2025-07-17"))
		require.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("inicio posterior al fin", func(t *testing.T) {
		err := billing.ValidatePeriod(dayPtr("2025-07-20"), dayPtr("2025-07-10"))
		require.ErrorIs(t, err, domain.ErrValidation)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "period_end", verr.Field)
	})
	t.Run("más de 31 días", func(t *testing.T) {
		err := billing.ValidatePeriod(dayPtr("2025-07-01"), dayPtr("2025-08-15"))
		require.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("falta inicio", func(t *testing.T) {
		err := billing.ValidatePeriod(nil, dayPtr("2025-07-31"))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "period_start", verr.Field)
	})
}

package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/serranomp/fincas-api/internal/domain/billing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestTotal_Formula verifica total = base + base*iva/100 - base*irpf/100
// sobre casos representativos de alquiler en España.
func TestTotal_Formula(t *testing.T) {
	cases := []struct {
		name             string
		base, vat, irpf  string
		want             string
	}{
		{"alquiler estándar 21/15", "1000", "21", "15", "1060.00"},
		{"solo IVA", "500", "10", "0", "550.00"},
		{"solo retención", "800", "0", "19", "648.00"},
		{"exento", "250", "0", "0", "250.00"},
		{"base cero", "0", "21", "15", "0.00"},
		{"base con decimales", "483.87", "21", "15", "512.90"},
		{"base negativa (abono)", "-1000", "21", "15", "-1060.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := billing.Total(dec(tc.base), dec(tc.vat), dec(tc.irpf))
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

// TestTotal_RedondeoSoloAlFinal comprueba que el redondeo half-up se aplica
// una sola vez sobre el total, no sobre las cuotas intermedias.
func TestTotal_RedondeoSoloAlFinal(t *testing.T) {
	// 33.33 * 1.21 = 40.3293 -> 40.33; redondear la cuota antes daría 40.33 igual,
	// pero 0.05 al 10% expone el half-up: 0.055 -> 0.06.
	assert.Equal(t, "0.06", billing.Total(dec("0.05"), dec("10"), dec("0")).StringFixed(2))
	assert.Equal(t, "40.33", billing.Total(dec("33.33"), dec("21"), dec("0")).StringFixed(2))
}

// TestTotal_CuotasIndependientes: las cuotas para presentación se redondean
// cada una por su lado.
func TestTotal_CuotasIndependientes(t *testing.T) {
	base := dec("483.87")
	assert.Equal(t, "101.61", billing.VATAmount(base, dec("21")).StringFixed(2))
	assert.Equal(t, "72.58", billing.IRPFAmount(base, dec("15")).StringFixed(2))
}

// TestTotal_MitadExacta: las mitades .005 se alejan de cero, de modo que el
// total de un abono es siempre el del original negado, también en el límite.
func TestTotal_MitadExacta(t *testing.T) {
	// 0.05 con IVA 10 da 0.055 -> 0.06; su abono -0.05 da -0.055 -> -0.06
	// (half-up estricto daría -0.05 y rompería la simetría).
	assert.Equal(t, "0.06", billing.Total(dec("0.05"), dec("10"), dec("0")).StringFixed(2))
	assert.Equal(t, "-0.06", billing.Total(dec("-0.05"), dec("10"), dec("0")).StringFixed(2))

	// Mitad exacta en un importe realista: 483.75 * 1.06 = 512.775 -> 512.78.
	assert.Equal(t, "512.78", billing.Total(dec("483.75"), dec("21"), dec("15")).StringFixed(2))
	assert.Equal(t, "-512.78", billing.Total(dec("-483.75"), dec("21"), dec("15")).StringFixed(2))

	original := billing.Total(dec("483.75"), dec("21"), dec("15"))
	abono := billing.Total(dec("-483.75"), dec("21"), dec("15"))
	assert.True(t, abono.Equal(original.Neg()), "el abono debe negar exactamente el original")
}

// TestTotal_Pura: mismas entradas, mismo resultado, sin estado oculto.
func TestTotal_Pura(t *testing.T) {
	a := billing.Total(dec("1234.56"), dec("21"), dec("19"))
	b := billing.Total(dec("1234.56"), dec("21"), dec("19"))
	assert.True(t, a.Equal(b))
}

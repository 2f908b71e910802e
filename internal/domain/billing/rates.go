package billing

import (
	"github.com/shopspring/decimal"

	"github.com/serranomp/fincas-api/internal/domain"
)

// RatePolicy define los tipos de IVA e IRPF admitidos. Las listas son
// política de negocio configurable (varían con la normativa), no parte del
// motor de cálculo: el orquestador las consulta antes de calcular.
//
// Una lista vacía admite cualquier tipo dentro del rango 0-100.
type RatePolicy struct {
	VATRates  []decimal.Decimal
	IRPFRates []decimal.Decimal
}

// DefaultRatePolicy devuelve los tipos vigentes en España: IVA general,
// reducido, superreducido y exento; IRPF de arrendamientos y profesionales.
func DefaultRatePolicy() RatePolicy {
	return NewRatePolicy([]float64{0, 4, 10, 21}, []float64{0, 7, 15, 19})
}

// NewRatePolicy construye la política a partir de valores de configuración.
func NewRatePolicy(vat, irpf []float64) RatePolicy {
	p := RatePolicy{}
	for _, r := range vat {
		p.VATRates = append(p.VATRates, decimal.NewFromFloat(r))
	}
	for _, r := range irpf {
		p.IRPFRates = append(p.IRPFRates, decimal.NewFromFloat(r))
	}
	return p
}

// ValidateVAT comprueba que el tipo de IVA está en rango y en la lista.
func (p RatePolicy) ValidateVAT(rate decimal.Decimal) error {
	return validateRate("vat_rate", rate, p.VATRates)
}

// ValidateIRPF comprueba que el tipo de IRPF está en rango y en la lista.
func (p RatePolicy) ValidateIRPF(rate decimal.Decimal) error {
	return validateRate("irpf_rate", rate, p.IRPFRates)
}

func validateRate(field string, rate decimal.Decimal, allowed []decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return domain.Validationf(field, "debe estar entre 0 y 100")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if rate.Equal(a) {
			return nil
		}
	}
	return domain.Validationf(field, "tipo %s no admitido", rate.String())
}

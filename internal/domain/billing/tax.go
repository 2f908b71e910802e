// Package billing contiene el motor de cálculo de documentos financieros:
// impuestos, prorrateo por días, consecutivos, regla de duplicados y máquina
// de estados de cobro. Todo el paquete es cálculo puro sin E/S: seguro para
// invocación concurrente desde varias peticiones en vuelo.
package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Total calcula el total de un documento:
//
//	total = base + base*iva/100 - base*irpf/100
//
// redondeado a 2 decimales únicamente sobre el resultado final, nunca sobre
// las cuotas intermedias. Las mitades exactas se redondean alejándose de cero
// (en positivos equivale a half-up): con bases negativas, que solo aparecen en
// abonos, el total del abono coincide exactamente con el del original con el
// signo cambiado también en el límite .005. Tipos fuera de rango o negativos
// no se validan aquí: la validación de campos pertenece al orquestador.
func Total(base, vatRate, irpfRate decimal.Decimal) decimal.Decimal {
	vat := base.Mul(vatRate).Div(hundred)
	irpf := base.Mul(irpfRate).Div(hundred)
	return base.Add(vat).Sub(irpf).Round(2)
}

// VATAmount devuelve la cuota de IVA redondeada de forma independiente para
// su presentación. No debe sumarse con IRPFAmount para obtener el total: el
// total se redondea sobre el cálculo sin redondear.
func VATAmount(base, vatRate decimal.Decimal) decimal.Decimal {
	return base.Mul(vatRate).Div(hundred).Round(2)
}

// IRPFAmount devuelve la cuota de retención IRPF redondeada de forma
// independiente para su presentación.
func IRPFAmount(base, irpfRate decimal.Decimal) decimal.Decimal {
	return base.Mul(irpfRate).Div(hundred).Round(2)
}

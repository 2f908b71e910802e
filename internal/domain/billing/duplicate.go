package billing

import "github.com/serranomp/fincas-api/internal/domain/entity"

// InvoiceConflicts decide si la factura candidata colisiona con alguna
// existente: mismo (propietario, inmueble) y mismo mes contable, ignorando
// abonos. Nunca falla; el orquestador decide qué hacer con el conflicto.
func InvoiceConflicts(cand *entity.Invoice, existing []*entity.Invoice) bool {
	if cand.IsRefund {
		return false
	}
	month := cand.AccountingMonth()
	for _, ex := range existing {
		if ex.IsRefund || (cand.ID != "" && ex.ID == cand.ID) {
			continue
		}
		if ex.OwnerID == cand.OwnerID && ex.PropertyID == cand.PropertyID && ex.AccountingMonth() == month {
			return true
		}
	}
	return false
}

// ExpenseConflicts decide si el gasto candidato colisiona con alguno
// existente del mismo inmueble y mes contable. La comparación es línea a
// línea: basta con que UNA línea de coste (renta, luz, gas, agua, comunidad,
// seguro, basuras, otros) sea positiva e idéntica en ambos para declarar
// duplicado, con corte en la primera coincidencia.
//
// Heurística heredada, conservada tal cual: puede dar falsos positivos (dos
// recibos de meses distintos con el mismo importe y fecha mal introducida) y
// falsos negativos (todas las líneas difieren céntimos por redondeo).
func ExpenseConflicts(cand *entity.Expense, existing []*entity.Expense) bool {
	if cand.IsRefund {
		return false
	}
	month := cand.AccountingMonth()
	for _, ex := range existing {
		if ex.IsRefund || (cand.ID != "" && ex.ID == cand.ID) {
			continue
		}
		if ex.PropertyID != cand.PropertyID || ex.AccountingMonth() != month {
			continue
		}
		if anyLineMatches(cand.Lines, ex.Lines) {
			return true
		}
	}
	return false
}

func anyLineMatches(a, b entity.CostLines) bool {
	as, bs := a.Slice(), b.Slice()
	for i := range as {
		if as[i].IsPositive() && as[i].Equal(bs[i]) {
			return true
		}
	}
	return false
}

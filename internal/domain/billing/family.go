package billing

import "github.com/serranomp/fincas-api/internal/domain/entity"

// Family describe una familia de documentos: su código y los prefijos de
// numeración de documentos normales y de abonos. Cada partición
// (normal/abono) lleva un contador independiente.
type Family struct {
	Code         string
	Prefix       string
	RefundPrefix string
}

var (
	FamilyFacturaEmitida  = Family{Code: "factura_emitida", Prefix: "FACT", RefundPrefix: "ABONO"}
	FamilyFacturaRecibida = Family{Code: "factura_recibida", Prefix: "FR", RefundPrefix: "ABONO-FR"}
	FamilyRecibo          = Family{Code: "recibo", Prefix: "REC", RefundPrefix: "ABONO-REC"}
	FamilyGastoAlquiler   = Family{Code: "gasto_alquiler", Prefix: "FACT-G", RefundPrefix: "ABONO-G"}
	FamilyGastoInterno    = Family{Code: "gasto_interno", Prefix: "G-INT", RefundPrefix: "ABONO-GI"}
)

// NumberPrefix devuelve el prefijo de la partición correspondiente.
func (f Family) NumberPrefix(isRefund bool) string {
	if isRefund {
		return f.RefundPrefix
	}
	return f.Prefix
}

// InvoiceFamily devuelve la familia de una clase de factura.
func InvoiceFamily(k entity.InvoiceKind) Family {
	switch k {
	case entity.InvoiceRecibida:
		return FamilyFacturaRecibida
	case entity.InvoiceRecibo:
		return FamilyRecibo
	default:
		return FamilyFacturaEmitida
	}
}

// ExpenseFamily devuelve la familia de una clase de gasto.
func ExpenseFamily(k entity.ExpenseKind) Family {
	if k == entity.ExpenseInterno {
		return FamilyGastoInterno
	}
	return FamilyGastoAlquiler
}

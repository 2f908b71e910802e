package billing

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// BookExportUseCase genera el libro registro de facturas de una familia en
// CSV separado por punto y coma, codificado ISO-8859-1 tal como lo esperan
// las herramientas de presentación de la AEAT.
type BookExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewBookExportUseCase construye el caso de uso.
func NewBookExportUseCase(invoiceRepo repository.InvoiceRepository) *BookExportUseCase {
	return &BookExportUseCase{invoiceRepo: invoiceRepo}
}

// Export devuelve el libro de la familia en ISO-8859-1.
func (uc *BookExportUseCase) Export(ctx context.Context, kind entity.InvoiceKind) ([]byte, error) {
	list, err := uc.invoiceRepo.ListByKind(kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.ISO8859_1.NewEncoder())
	fmt.Fprintln(w, "Número;Fecha;Mes;Base imponible;IVA %;Cuota IVA;IRPF %;Cuota IRPF;Total;Estado;Abono")
	for _, inv := range list {
		refund := "NO"
		if inv.IsRefund {
			refund = "SÍ"
		}
		fmt.Fprintf(w, "%s;%s;%s;%s;%s;%s;%s;%s;%s;%s;%s\n",
			inv.Number,
			inv.IssueDate.Format(dateLayout),
			inv.AccountingMonth(),
			inv.TaxBase.StringFixed(2),
			inv.VATRate.String(),
			inv.VATAmount.StringFixed(2),
			inv.IRPFRate.String(),
			inv.IRPFAmount.StringFixed(2),
			inv.Total.StringFixed(2),
			inv.PaymentStatus,
			refund,
		)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codificar libro: %w", err)
	}
	return buf.Bytes(), nil
}

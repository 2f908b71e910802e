package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, kind, number, owner_id, client_id, property_id, concept, issue_date, due_date,
	tax_base, vat_rate, irpf_rate, vat_amount, irpf_amount, total,
	proportional, period_start, period_end, corresponding_month,
	days_billed, days_in_month, proportion_percent,
	is_refund, original_id,
	payment_status, payment_date, payment_method, payment_reference,
	created_at, updated_at`

// LastNumber devuelve el último consecutivo emitido del prefijo, o "" si la
// familia aún no tiene documentos. Se lee del contador, no del máximo de la
// tabla: un número asignado no se reutiliza aunque su documento se borre.
func (r *InvoiceRepo) LastNumber(prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT last_number FROM billing_sequences WHERE prefix = $1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last number: %w", err)
	}
	return last, nil
}

// Create persiste la factura y avanza el contador de su familia.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Kind, inv.Number, inv.OwnerID, nullIfEmpty(inv.ClientID), inv.PropertyID,
		inv.Concept, inv.IssueDate, inv.DueDate,
		inv.TaxBase, inv.VATRate, inv.IRPFRate, inv.VATAmount, inv.IRPFAmount, inv.Total,
		inv.Proportional, inv.PeriodStart, inv.PeriodEnd, nullIfEmpty(inv.CorrespondingMonth),
		inv.DaysBilled, inv.DaysInMonth, inv.ProportionPercent,
		inv.IsRefund, nullIfEmpty(inv.OriginalID),
		inv.PaymentStatus, inv.PaymentDate, nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.PaymentReference),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Family: string(inv.Kind), Subject: inv.Number, Period: inv.AccountingMonth()}
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.advanceSequence(inv.Number)
}

// advanceSequence registra el consecutivo como el último de su familia.
func (r *InvoiceRepo) advanceSequence(number string) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO billing_sequences (prefix, last_number)
		VALUES ($1, $2)
		ON CONFLICT (prefix) DO UPDATE SET last_number = EXCLUDED.last_number`,
		numberPrefix(number), number)
	if err != nil {
		return fmt.Errorf("advance sequence: %w", err)
	}
	return nil
}

// Update actualiza todos los campos mutables de la factura.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET number = $2, client_id = $3, concept = $4, issue_date = $5, due_date = $6,
		    tax_base = $7, vat_rate = $8, irpf_rate = $9, vat_amount = $10, irpf_amount = $11, total = $12,
		    proportional = $13, period_start = $14, period_end = $15, corresponding_month = $16,
		    days_billed = $17, days_in_month = $18, proportion_percent = $19,
		    payment_status = $20, payment_date = $21, payment_method = $22, payment_reference = $23,
		    updated_at = $24
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, nullIfEmpty(inv.ClientID), inv.Concept, inv.IssueDate, inv.DueDate,
		inv.TaxBase, inv.VATRate, inv.IRPFRate, inv.VATAmount, inv.IRPFAmount, inv.Total,
		inv.Proportional, inv.PeriodStart, inv.PeriodEnd, nullIfEmpty(inv.CorrespondingMonth),
		inv.DaysBilled, inv.DaysInMonth, inv.ProportionPercent,
		inv.PaymentStatus, inv.PaymentDate, nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.PaymentReference),
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Family: string(inv.Kind), Subject: inv.Number, Period: inv.AccountingMonth()}
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID, nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByNumber obtiene una factura por consecutivo dentro de su familia.
func (r *InvoiceRepo) GetByNumber(kind entity.InvoiceKind, number string) (*entity.Invoice, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE kind = $1 AND number = $2`, kind, number)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

// ListBySubjectAndMonth lista los documentos del sujeto imputados al mes
// contable indicado (corresponding_month si existe, mes de emisión si no).
func (r *InvoiceRepo) ListBySubjectAndMonth(kind entity.InvoiceKind, ownerID, propertyID, yearMonth string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE kind = $1 AND owner_id = $2 AND property_id = $3
		  AND COALESCE(NULLIF(corresponding_month, ''), to_char(issue_date, 'YYYY-MM')) = $4
		ORDER BY number`
	rows, err := r.q.Query(context.Background(), query, kind, ownerID, propertyID, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("list invoices by subject: %w", err)
	}
	return collectInvoices(rows)
}

// ListByKind lista todos los documentos de una familia ordenados por consecutivo.
func (r *InvoiceRepo) ListByKind(kind entity.InvoiceKind) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE kind = $1 ORDER BY number`, kind)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return collectInvoices(rows)
}

// ListPendingDueBefore lista documentos pendientes cuyo vencimiento quedó
// antes de la fecha dada.
func (r *InvoiceRepo) ListPendingDueBefore(asOf time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE payment_status = 'PENDIENTE' AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list pending invoices: %w", err)
	}
	return collectInvoices(rows)
}

// Delete elimina una factura. El contador de su familia no retrocede.
func (r *InvoiceRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var clientID, month, originalID, method, reference *string
	err := row.Scan(
		&inv.ID, &inv.Kind, &inv.Number, &inv.OwnerID, &clientID, &inv.PropertyID,
		&inv.Concept, &inv.IssueDate, &inv.DueDate,
		&inv.TaxBase, &inv.VATRate, &inv.IRPFRate, &inv.VATAmount, &inv.IRPFAmount, &inv.Total,
		&inv.Proportional, &inv.PeriodStart, &inv.PeriodEnd, &month,
		&inv.DaysBilled, &inv.DaysInMonth, &inv.ProportionPercent,
		&inv.IsRefund, &originalID,
		&inv.PaymentStatus, &inv.PaymentDate, &method, &reference,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ClientID = derefStr(clientID)
	inv.CorrespondingMonth = derefStr(month)
	inv.OriginalID = derefStr(originalID)
	inv.PaymentMethod = derefStr(method)
	inv.PaymentReference = derefStr(reference)
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

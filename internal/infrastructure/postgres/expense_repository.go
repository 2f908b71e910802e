package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
// Las líneas de coste se guardan como columnas, no como tabla hija: el
// desglose es fijo y la regla de duplicados las compara una a una.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `
	id, kind, number, owner_id, property_id, concept, issue_date,
	line_rent, line_electricity, line_gas, line_water,
	line_community, line_insurance, line_waste, line_other,
	tax_base, vat_rate, irpf_rate, vat_amount, irpf_amount, total,
	proportional, period_start, period_end, corresponding_month,
	days_billed, days_in_month, proportion_percent,
	is_refund, original_id,
	payment_status, payment_date, payment_method, payment_reference,
	created_at, updated_at`

// LastNumber devuelve el último consecutivo emitido del prefijo, o "" si la
// familia aún no tiene documentos.
func (r *ExpenseRepo) LastNumber(prefix string) (string, error) {
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

// Create persiste el gasto y avanza el contador de su familia.
func (r *ExpenseRepo) Create(exp *entity.Expense) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34, $35, $36)`
	_, err := r.q.Exec(context.Background(), query,
		exp.ID, exp.Kind, exp.Number, exp.OwnerID, exp.PropertyID, exp.Concept, exp.IssueDate,
		exp.Lines.Rent, exp.Lines.Electricity, exp.Lines.Gas, exp.Lines.Water,
		exp.Lines.Community, exp.Lines.Insurance, exp.Lines.Waste, exp.Lines.Other,
		exp.TaxBase, exp.VATRate, exp.IRPFRate, exp.VATAmount, exp.IRPFAmount, exp.Total,
		exp.Proportional, exp.PeriodStart, exp.PeriodEnd, nullIfEmpty(exp.CorrespondingMonth),
		exp.DaysBilled, exp.DaysInMonth, exp.ProportionPercent,
		exp.IsRefund, nullIfEmpty(exp.OriginalID),
		exp.PaymentStatus, exp.PaymentDate, nullIfEmpty(exp.PaymentMethod), nullIfEmpty(exp.PaymentReference),
		exp.CreatedAt, exp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Family: string(exp.Kind), Subject: exp.Number, Period: exp.AccountingMonth()}
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return r.advanceSequence(exp.Number)
}

func (r *ExpenseRepo) advanceSequence(number string) error {
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

// Update actualiza todos los campos mutables del gasto.
func (r *ExpenseRepo) Update(exp *entity.Expense) error {
	query := `
		UPDATE expenses
		SET number = $2, concept = $3, issue_date = $4,
		    line_rent = $5, line_electricity = $6, line_gas = $7, line_water = $8,
		    line_community = $9, line_insurance = $10, line_waste = $11, line_other = $12,
		    tax_base = $13, vat_rate = $14, irpf_rate = $15, vat_amount = $16, irpf_amount = $17, total = $18,
		    proportional = $19, period_start = $20, period_end = $21, corresponding_month = $22,
		    days_billed = $23, days_in_month = $24, proportion_percent = $25,
		    payment_status = $26, payment_date = $27, payment_method = $28, payment_reference = $29,
		    updated_at = $30
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		exp.ID, exp.Number, exp.Concept, exp.IssueDate,
		exp.Lines.Rent, exp.Lines.Electricity, exp.Lines.Gas, exp.Lines.Water,
		exp.Lines.Community, exp.Lines.Insurance, exp.Lines.Waste, exp.Lines.Other,
		exp.TaxBase, exp.VATRate, exp.IRPFRate, exp.VATAmount, exp.IRPFAmount, exp.Total,
		exp.Proportional, exp.PeriodStart, exp.PeriodEnd, nullIfEmpty(exp.CorrespondingMonth),
		exp.DaysBilled, exp.DaysInMonth, exp.ProportionPercent,
		exp.PaymentStatus, exp.PaymentDate, nullIfEmpty(exp.PaymentMethod), nullIfEmpty(exp.PaymentReference),
		exp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Family: string(exp.Kind), Subject: exp.Number, Period: exp.AccountingMonth()}
		}
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID, nil si no existe.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	exp, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return exp, nil
}

// GetByNumber obtiene un gasto por consecutivo dentro de su familia.
func (r *ExpenseRepo) GetByNumber(kind entity.ExpenseKind, number string) (*entity.Expense, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE kind = $1 AND number = $2`, kind, number)
	exp, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense by number: %w", err)
	}
	return exp, nil
}

// ListByPropertyAndMonth lista los gastos del inmueble imputados al mes contable.
func (r *ExpenseRepo) ListByPropertyAndMonth(kind entity.ExpenseKind, propertyID, yearMonth string) ([]*entity.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE kind = $1 AND property_id = $2
		  AND COALESCE(NULLIF(corresponding_month, ''), to_char(issue_date, 'YYYY-MM')) = $3
		ORDER BY number`
	rows, err := r.q.Query(context.Background(), query, kind, propertyID, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("list expenses by property: %w", err)
	}
	return collectExpenses(rows)
}

// ListByKind lista todos los gastos de una familia ordenados por consecutivo.
func (r *ExpenseRepo) ListByKind(kind entity.ExpenseKind) ([]*entity.Expense, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE kind = $1 ORDER BY number`, kind)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// Delete elimina un gasto. El contador de su familia no retrocede.
func (r *ExpenseRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete expense: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanExpense(row pgxScanner) (*entity.Expense, error) {
	var exp entity.Expense
	var month, originalID, method, reference *string
	err := row.Scan(
		&exp.ID, &exp.Kind, &exp.Number, &exp.OwnerID, &exp.PropertyID, &exp.Concept, &exp.IssueDate,
		&exp.Lines.Rent, &exp.Lines.Electricity, &exp.Lines.Gas, &exp.Lines.Water,
		&exp.Lines.Community, &exp.Lines.Insurance, &exp.Lines.Waste, &exp.Lines.Other,
		&exp.TaxBase, &exp.VATRate, &exp.IRPFRate, &exp.VATAmount, &exp.IRPFAmount, &exp.Total,
		&exp.Proportional, &exp.PeriodStart, &exp.PeriodEnd, &month,
		&exp.DaysBilled, &exp.DaysInMonth, &exp.ProportionPercent,
		&exp.IsRefund, &originalID,
		&exp.PaymentStatus, &exp.PaymentDate, &method, &reference,
		&exp.CreatedAt, &exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	exp.CorrespondingMonth = derefStr(month)
	exp.OriginalID = derefStr(originalID)
	exp.PaymentMethod = derefStr(method)
	exp.PaymentReference = derefStr(reference)
	return &exp, nil
}

func collectExpenses(rows pgx.Rows) ([]*entity.Expense, error) {
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, exp)
	}
	return list, rows.Err()
}

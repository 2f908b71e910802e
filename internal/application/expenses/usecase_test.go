package expenses_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/application/expenses"
	"github.com/serranomp/fincas-api/internal/domain"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

type fakeExpenseRepo struct {
	docs         map[string]*entity.Expense
	lastByPrefix map[string]string
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{docs: map[string]*entity.Expense{}, lastByPrefix: map[string]string{}}
}

func (r *fakeExpenseRepo) LastNumber(prefix string) (string, error) {
	return r.lastByPrefix[prefix], nil
}

func (r *fakeExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	if exp, ok := r.docs[id]; ok {
		cp := *exp
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeExpenseRepo) GetByNumber(kind entity.ExpenseKind, number string) (*entity.Expense, error) {
	for _, exp := range r.docs {
		if exp.Kind == kind && exp.Number == number {
			cp := *exp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) ListByPropertyAndMonth(kind entity.ExpenseKind, propertyID, yearMonth string) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, exp := range r.docs {
		if exp.Kind == kind && exp.PropertyID == propertyID && exp.AccountingMonth() == yearMonth {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) ListByKind(kind entity.ExpenseKind) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, exp := range r.docs {
		if exp.Kind == kind {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) Create(exp *entity.Expense) error {
	cp := *exp
	r.docs[exp.ID] = &cp
	if i := strings.LastIndex(exp.Number, "-"); i > 0 {
		r.lastByPrefix[exp.Number[:i]] = exp.Number
	}
	return nil
}

func (r *fakeExpenseRepo) Update(exp *entity.Expense) error {
	cp := *exp
	r.docs[exp.ID] = &cp
	return nil
}

func (r *fakeExpenseRepo) Delete(id string) (int64, error) {
	if _, ok := r.docs[id]; !ok {
		return 0, nil
	}
	delete(r.docs, id)
	return 1, nil
}

type fakeInvoiceRepo struct{}

func (fakeInvoiceRepo) LastNumber(string) (string, error)       { return "", nil }
func (fakeInvoiceRepo) GetByID(string) (*entity.Invoice, error) { return nil, nil }
func (fakeInvoiceRepo) GetByNumber(entity.InvoiceKind, string) (*entity.Invoice, error) {
	return nil, nil
}
func (fakeInvoiceRepo) ListBySubjectAndMonth(entity.InvoiceKind, string, string, string) ([]*entity.Invoice, error) {
	return nil, nil
}
func (fakeInvoiceRepo) ListByKind(entity.InvoiceKind) ([]*entity.Invoice, error)       { return nil, nil }
func (fakeInvoiceRepo) ListPendingDueBefore(time.Time) ([]*entity.Invoice, error)      { return nil, nil }
func (fakeInvoiceRepo) Create(*entity.Invoice) error                             { return nil }
func (fakeInvoiceRepo) Update(*entity.Invoice) error                             { return nil }
func (fakeInvoiceRepo) Delete(string) (int64, error)                             { return 0, nil }

type noopLocker struct{}

func (noopLocker) LockFamily(string) error { return nil }

type fakeTxRunner struct {
	exp *fakeExpenseRepo
}

func (r *fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.InvoiceRepository, repository.ExpenseRepository, repository.FamilyLocker) error) error {
	return fn(fakeInvoiceRepo{}, r.exp, noopLocker{})
}

func newUseCase() (*expenses.ExpenseUseCase, *fakeExpenseRepo) {
	repo := newFakeExpenseRepo()
	uc := expenses.NewExpenseUseCase(repo, &fakeTxRunner{exp: repo}, dombilling.DefaultRatePolicy())
	return uc, repo
}

func gastoRequest() dto.CreateExpenseRequest {
	return dto.CreateExpenseRequest{
		Kind:       string(entity.ExpenseAlquiler),
		OwnerID:    "o1",
		PropertyID: "p1",
		Concept:    "Suministros julio",
		IssueDate:  "2025-07-05",
		Lines: dto.CostLinesDTO{
			Electricity: decimal.NewFromFloat(54.30),
			Water:       decimal.NewFromFloat(23.15),
		},
		VATRate: decimal.NewFromInt(21),
	}
}

func TestCreateExpense_DerivaBaseDeLineas(t *testing.T) {
	uc, _ := newUseCase()

	resp, err := uc.Create(context.Background(), gastoRequest())
	require.NoError(t, err)

	assert.Equal(t, "FACT-G-0001", resp.Number)
	assert.Equal(t, "77.45", resp.TaxBase.StringFixed(2))
	assert.Equal(t, "93.71", resp.Total.StringFixed(2)) // 77.45 * 1.21 = 93.7145
	assert.Equal(t, dombilling.StatusPendiente, resp.PaymentStatus)
}

func TestCreateExpense_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	sinLineas := gastoRequest()
	sinLineas.Lines = dto.CostLinesDTO{}
	_, err := uc.Create(ctx, sinLineas)
	assert.ErrorIs(t, err, domain.ErrValidation)

	negativa := gastoRequest()
	negativa.Lines.Gas = decimal.NewFromInt(-10)
	_, err = uc.Create(ctx, negativa)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Una sola línea idéntica en el mismo inmueble y mes => duplicado.
func TestCreateExpense_DuplicadoPorLinea(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, gastoRequest())
	require.NoError(t, err)

	repetido := gastoRequest()
	repetido.Lines = dto.CostLinesDTO{Electricity: decimal.NewFromFloat(54.30)}
	_, err = uc.Create(ctx, repetido)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	distinto := gastoRequest()
	distinto.Lines = dto.CostLinesDTO{Electricity: decimal.NewFromFloat(54.31), Water: decimal.NewFromFloat(23.16)}
	resp, err := uc.Create(ctx, distinto)
	require.NoError(t, err)
	assert.Equal(t, "FACT-G-0002", resp.Number)
}

func TestCreateExpenseRefund_NiegaCadaLinea(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	orig, err := uc.Create(ctx, gastoRequest())
	require.NoError(t, err)

	refund, err := uc.CreateRefund(ctx, orig.ID, dto.RefundInvoiceRequest{})
	require.NoError(t, err)

	assert.True(t, refund.IsRefund)
	assert.Equal(t, "ABONO-G-0001", refund.Number)
	assert.Equal(t, "-54.30", refund.Lines.Electricity.StringFixed(2))
	assert.Equal(t, "-23.15", refund.Lines.Water.StringFixed(2))
	// Las líneas a cero quedan a cero, no cambian de signo.
	assert.True(t, refund.Lines.Gas.IsZero())
	assert.Equal(t, "-77.45", refund.TaxBase.StringFixed(2))
	assert.Equal(t, "-93.71", refund.Total.StringFixed(2))

	_, err = uc.CreateRefund(ctx, refund.ID, dto.RefundInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestUpdateExpense_RecalculaDesdeLineas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	orig, err := uc.Create(ctx, gastoRequest())
	require.NoError(t, err)

	lines := dto.CostLinesDTO{Rent: decimal.NewFromInt(900)}
	resp, err := uc.Update(ctx, orig.ID, dto.UpdateExpenseRequest{Lines: &lines})
	require.NoError(t, err)
	assert.Equal(t, "900.00", resp.TaxBase.StringFixed(2))
	assert.Equal(t, "1089.00", resp.Total.StringFixed(2))
}

func TestExpensePaymentStatus(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	resp, err := uc.Create(ctx, gastoRequest())
	require.NoError(t, err)

	paid, err := uc.UpdatePaymentStatus(ctx, resp.ID, dto.PaymentStatusRequest{
		Status: dombilling.StatusCobrada,
		Method: dombilling.MethodDomiciliacion,
		Date:   "2025-07-20",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-07-20", paid.PaymentDate)

	_, err = uc.UpdatePaymentStatus(ctx, resp.ID, dto.PaymentStatusRequest{Status: "PAGADO"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

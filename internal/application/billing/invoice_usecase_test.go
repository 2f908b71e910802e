package billing_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria del colaborador de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	docs         map[string]*entity.Invoice
	lastByPrefix map[string]string // el consecutivo no se reutiliza tras borrar
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{docs: map[string]*entity.Invoice{}, lastByPrefix: map[string]string{}}
}

func (r *fakeInvoiceRepo) LastNumber(prefix string) (string, error) {
	return r.lastByPrefix[prefix], nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	if inv, ok := r.docs[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetByNumber(kind entity.InvoiceKind, number string) (*entity.Invoice, error) {
	for _, inv := range r.docs {
		if inv.Kind == kind && inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListBySubjectAndMonth(kind entity.InvoiceKind, ownerID, propertyID, yearMonth string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.docs {
		if inv.Kind == kind && inv.OwnerID == ownerID && inv.PropertyID == propertyID && inv.AccountingMonth() == yearMonth {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByKind(kind entity.InvoiceKind) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.docs {
		if inv.Kind == kind {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListPendingDueBefore(asOf time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.docs {
		if inv.PaymentStatus == dombilling.StatusPendiente && inv.DueDate != nil && inv.DueDate.Before(asOf) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.docs[inv.ID] = &cp
	if i := strings.LastIndex(inv.Number, "-"); i > 0 {
		r.lastByPrefix[inv.Number[:i]] = inv.Number
	}
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	r.docs[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) (int64, error) {
	if _, ok := r.docs[id]; !ok {
		return 0, nil
	}
	delete(r.docs, id)
	return 1, nil
}

type fakeExpenseRepo struct{}

func (fakeExpenseRepo) LastNumber(string) (string, error)            { return "", nil }
func (fakeExpenseRepo) GetByID(string) (*entity.Expense, error)      { return nil, nil }
func (fakeExpenseRepo) GetByNumber(entity.ExpenseKind, string) (*entity.Expense, error) {
	return nil, nil
}
func (fakeExpenseRepo) ListByPropertyAndMonth(entity.ExpenseKind, string, string) ([]*entity.Expense, error) {
	return nil, nil
}
func (fakeExpenseRepo) ListByKind(entity.ExpenseKind) ([]*entity.Expense, error) { return nil, nil }
func (fakeExpenseRepo) Create(*entity.Expense) error                             { return nil }
func (fakeExpenseRepo) Update(*entity.Expense) error                             { return nil }
func (fakeExpenseRepo) Delete(string) (int64, error)                             { return 0, nil }

type noopLocker struct{}

func (noopLocker) LockFamily(string) error { return nil }

type fakeTxRunner struct {
	inv *fakeInvoiceRepo
}

func (r *fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.InvoiceRepository, repository.ExpenseRepository, repository.FamilyLocker) error) error {
	return fn(r.inv, fakeExpenseRepo{}, noopLocker{})
}

func newUseCase() (*appbilling.InvoiceUseCase, *fakeInvoiceRepo) {
	repo := newFakeInvoiceRepo()
	uc := appbilling.NewInvoiceUseCase(repo, &fakeTxRunner{inv: repo}, dombilling.DefaultRatePolicy())
	return uc, repo
}

func reciboRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Kind:       string(entity.InvoiceRecibo),
		OwnerID:    "o1",
		ClientID:   "c1",
		PropertyID: "p1",
		Concept:    "Renta julio 2025",
		IssueDate:  "2025-07-01",
		TaxBase:    decimal.NewFromInt(1000),
		VATRate:    decimal.NewFromInt(21),
		IRPFRate:   decimal.NewFromInt(15),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaConsecutivoYTotal(t *testing.T) {
	uc, _ := newUseCase()

	resp, err := uc.Create(context.Background(), reciboRequest())
	require.NoError(t, err)

	assert.Equal(t, "REC-0001", resp.Number)
	assert.Equal(t, "1060.00", resp.Total.StringFixed(2))
	assert.Equal(t, "210.00", resp.VATAmount.StringFixed(2))
	assert.Equal(t, "150.00", resp.IRPFAmount.StringFixed(2))
	assert.Equal(t, dombilling.StatusPendiente, resp.PaymentStatus)
	assert.False(t, resp.IsRefund)
}

func TestCreate_Proporcional(t *testing.T) {
	uc, _ := newUseCase()

	in := reciboRequest()
	in.Proportional = true
	in.PeriodStart = "2025-07-17"
	in.PeriodEnd = "2025-07-31"
	in.IssueDate = "2025-07-17"

	resp, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 15, resp.DaysBilled)
	assert.Equal(t, 31, resp.DaysInMonth)
	assert.Equal(t, "48.39", resp.ProportionPercent.StringFixed(2))
	assert.Equal(t, "483.87", resp.TaxBase.StringFixed(2))
	assert.Equal(t, "512.90", resp.Total.StringFixed(2))
	assert.Equal(t, "2025-07", resp.CorrespondingMonth)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
	}{
		{"clase desconocida", func(in *dto.CreateInvoiceRequest) { in.Kind = "NOMINA" }},
		{"sin propietario", func(in *dto.CreateInvoiceRequest) { in.OwnerID = "" }},
		{"sin inmueble", func(in *dto.CreateInvoiceRequest) { in.PropertyID = "" }},
		{"sin inquilino en recibo", func(in *dto.CreateInvoiceRequest) { in.ClientID = "" }},
		{"fecha malformada", func(in *dto.CreateInvoiceRequest) { in.IssueDate = "31/07/2025" }},
		{"base negativa", func(in *dto.CreateInvoiceRequest) { in.TaxBase = decimal.NewFromInt(-5) }},
		{"IVA fuera de política", func(in *dto.CreateInvoiceRequest) { in.VATRate = decimal.NewFromInt(16) }},
		{"proporcional sin periodo", func(in *dto.CreateInvoiceRequest) { in.Proportional = true }},
		{"periodo de un solo día", func(in *dto.CreateInvoiceRequest) {
			in.Proportional = true
			in.PeriodStart, in.PeriodEnd = "2025-07-17", "2025-07-17"
		}},
		{"periodo de más de 31 días", func(in *dto.CreateInvoiceRequest) {
			in.Proportional = true
			in.PeriodStart, in.PeriodEnd = "2025-07-01", "2025-08-15"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := reciboRequest()
			tc.mutate(&in)
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// TestCreate_Duplicados: segundo documento del mismo (propietario, inmueble)
// y mes => DuplicateError; cambiar el diferenciador vuelve a permitirlo.
func TestCreate_Duplicados(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)

	_, err = uc.Create(ctx, reciboRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	otherMonth := reciboRequest()
	otherMonth.IssueDate = "2025-08-01"
	resp, err := uc.Create(ctx, otherMonth)
	require.NoError(t, err)
	assert.Equal(t, "REC-0002", resp.Number)

	otherProperty := reciboRequest()
	otherProperty.PropertyID = "p2"
	resp, err = uc.Create(ctx, otherProperty)
	require.NoError(t, err)
	assert.Equal(t, "REC-0003", resp.Number)
}

// TestCreate_ConsecutivoNoSeReutiliza: borrar el último documento no libera
// su número.
func TestCreate_ConsecutivoNoSeReutiliza(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	first, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, first.ID))

	again, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)
	assert.Equal(t, "REC-0002", again.Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRefund_EspejaYNiega(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	in := reciboRequest()
	in.Kind = string(entity.InvoiceEmitida)
	in.Proportional = true
	in.PeriodStart, in.PeriodEnd = "2025-07-17", "2025-07-31"
	orig, err := uc.Create(ctx, in)
	require.NoError(t, err)

	refund, err := uc.CreateRefund(ctx, orig.ID, dto.RefundInvoiceRequest{})
	require.NoError(t, err)

	assert.True(t, refund.IsRefund)
	assert.Equal(t, orig.ID, refund.OriginalID)
	assert.Equal(t, "ABONO-0001", refund.Number)
	assert.Equal(t, "-483.87", refund.TaxBase.StringFixed(2))
	// El total se recalcula sobre la base negada, no es -total del original a ciegas.
	assert.Equal(t, "-512.90", refund.Total.StringFixed(2))
	// Clasificación copiada literal.
	assert.Equal(t, orig.PeriodStart, refund.PeriodStart)
	assert.Equal(t, orig.PeriodEnd, refund.PeriodEnd)
	assert.Equal(t, orig.CorrespondingMonth, refund.CorrespondingMonth)
	assert.Equal(t, orig.ProportionPercent, refund.ProportionPercent)
}

func TestCreateRefund_NoEncadena(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	in := reciboRequest()
	in.Kind = string(entity.InvoiceEmitida)
	orig, err := uc.Create(ctx, in)
	require.NoError(t, err)
	refund, err := uc.CreateRefund(ctx, orig.ID, dto.RefundInvoiceRequest{})
	require.NoError(t, err)

	_, err = uc.CreateRefund(ctx, refund.ID, dto.RefundInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestCreateRefund_OriginalInexistente(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.CreateRefund(context.Background(), "no-existe", dto.RefundInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Los contadores de abonos y documentos normales son independientes.
func TestCreateRefund_ContadorIndependiente(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	for i, month := range []string{"2025-07-01", "2025-08-01", "2025-09-01"} {
		in := reciboRequest()
		in.Kind = string(entity.InvoiceEmitida)
		in.IssueDate = month
		orig, err := uc.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "FACT-000"+strconv.Itoa(i+1), orig.Number)
	}
	resp, err := uc.GetByID(ctx, firstIDByNumber(t, uc, "FACT-0002"))
	require.NoError(t, err)
	refund, err := uc.CreateRefund(ctx, resp.ID, dto.RefundInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ABONO-0001", refund.Number)
}

func firstIDByNumber(t *testing.T, uc *appbilling.InvoiceUseCase, number string) string {
	t.Helper()
	list, err := uc.List(context.Background(), entity.InvoiceEmitida)
	require.NoError(t, err)
	for _, inv := range list {
		if inv.Number == number {
			return inv.ID
		}
	}
	t.Fatalf("no se encontró el documento %s", number)
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Modificación y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_RecalculaTotal(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	orig, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)

	newBase := decimal.NewFromInt(1200)
	resp, err := uc.Update(ctx, orig.ID, dto.UpdateInvoiceRequest{TaxBase: &newBase})
	require.NoError(t, err)
	assert.Equal(t, "1272.00", resp.Total.StringFixed(2))
	assert.Equal(t, orig.Number, resp.Number, "el consecutivo no cambia si no se pide")
}

func TestUpdate_NumeroOcupado(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	first, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)
	second := reciboRequest()
	second.IssueDate = "2025-08-01"
	secondResp, err := uc.Create(ctx, second)
	require.NoError(t, err)

	_, err = uc.Update(ctx, secondResp.ID, dto.UpdateInvoiceRequest{Number: &first.Number})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_AbonoInmutable(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	in := reciboRequest()
	in.Kind = string(entity.InvoiceEmitida)
	orig, err := uc.Create(ctx, in)
	require.NoError(t, err)
	refund, err := uc.CreateRefund(ctx, orig.ID, dto.RefundInvoiceRequest{})
	require.NoError(t, err)

	concept := "otro concepto"
	_, err = uc.Update(ctx, refund.ID, dto.UpdateInvoiceRequest{Concept: &concept})
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestUpdate_NoExiste(t *testing.T) {
	uc, _ := newUseCase()
	concept := "x"
	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateInvoiceRequest{Concept: &concept})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	resp, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, resp.ID))

	err = uc.Delete(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePaymentStatus_Cobro(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	resp, err := uc.Create(ctx, reciboRequest())
	require.NoError(t, err)

	paid, err := uc.UpdatePaymentStatus(ctx, resp.ID, dto.PaymentStatusRequest{
		Status: dombilling.StatusCobrada,
		Method: dombilling.MethodTransferencia,
	})
	require.NoError(t, err)
	assert.Equal(t, dombilling.StatusCobrada, paid.PaymentStatus)
	assert.NotEmpty(t, paid.PaymentDate, "sin fecha aportada se toma la actual")

	back, err := uc.UpdatePaymentStatus(ctx, resp.ID, dto.PaymentStatusRequest{Status: dombilling.StatusPendiente})
	require.NoError(t, err)
	assert.Empty(t, back.PaymentDate, "volver a pendiente borra la evidencia de cobro")
	assert.Empty(t, back.PaymentMethod)
}

func TestMarkOverdue(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	in := reciboRequest()
	in.DueDate = "2025-07-10"
	resp, err := uc.Create(ctx, in)
	require.NoError(t, err)

	count, err := uc.MarkOverdue(ctx, day("2025-07-15"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := uc.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, dombilling.StatusVencida, got.PaymentStatus)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

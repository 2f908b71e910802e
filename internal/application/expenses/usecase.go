// Package expenses orquesta el ciclo de vida de los gastos (de alquiler e
// internos): alta con regla de duplicados línea a línea, modificación,
// borrado, abonos y estado de pago.
package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ExpenseUseCase orquesta los gastos sobre la misma infraestructura
// transaccional que la facturación.
type ExpenseUseCase struct {
	expenseRepo repository.ExpenseRepository
	txRunner    appbilling.BillingTxRunner
	policy      dombilling.RatePolicy
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(expenseRepo repository.ExpenseRepository, txRunner appbilling.BillingTxRunner, policy dombilling.RatePolicy) *ExpenseUseCase {
	return &ExpenseUseCase{expenseRepo: expenseRepo, txRunner: txRunner, policy: policy}
}

// Create valida, deriva la base de la suma de líneas, prorratea si procede,
// aplica la regla de duplicados por línea y asigna consecutivo bajo el lock
// de familia.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	kind := entity.ExpenseKind(in.Kind)
	if !entity.ValidExpenseKind(kind) {
		return nil, domain.Validationf("kind", "clase desconocida %q", in.Kind)
	}
	if in.PropertyID == "" {
		return nil, domain.Validationf("property_id", "requerido")
	}
	issue, err := parseDate("issue_date", in.IssueDate)
	if err != nil {
		return nil, err
	}
	lines := toLines(in.Lines)
	for _, l := range lines.Slice() {
		if l.IsNegative() {
			return nil, domain.Validationf("lines", "las líneas de coste no pueden ser negativas")
		}
	}
	if lines.Sum().IsZero() {
		return nil, domain.Validationf("lines", "al menos una línea debe ser mayor que cero")
	}
	if err := uc.policy.ValidateVAT(in.VATRate); err != nil {
		return nil, err
	}
	if err := uc.policy.ValidateIRPF(in.IRPFRate); err != nil {
		return nil, err
	}

	now := time.Now()
	exp := &entity.Expense{
		ID:            uuid.New().String(),
		Kind:          kind,
		OwnerID:       in.OwnerID,
		PropertyID:    in.PropertyID,
		Concept:       in.Concept,
		IssueDate:     issue,
		Lines:         lines,
		VATRate:       in.VATRate,
		IRPFRate:      in.IRPFRate,
		PaymentStatus: dombilling.StatusPendiente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.computeAmounts(exp, in.Proportional, in.PeriodStart, in.PeriodEnd, in.CorrespondingMonth); err != nil {
		return nil, err
	}

	if err := uc.persistNew(ctx, exp); err != nil {
		return nil, err
	}
	return toExpenseResponse(exp), nil
}

// computeAmounts deriva base, cuotas y total del gasto a partir de la suma de
// líneas, prorrateando cuando es proporcional.
func (uc *ExpenseUseCase) computeAmounts(exp *entity.Expense, proportional bool, periodStart, periodEnd, month string) error {
	base := exp.Lines.Sum()
	exp.Proportional = proportional
	if !proportional {
		if month != "" {
			if _, err := time.Parse("2006-01", month); err != nil {
				return domain.Validationf("corresponding_month", "mes inválido, se espera YYYY-MM")
			}
			exp.CorrespondingMonth = month
		}
		exp.TaxBase = base
		exp.VATAmount = dombilling.VATAmount(base, exp.VATRate)
		exp.IRPFAmount = dombilling.IRPFAmount(base, exp.IRPFRate)
		exp.Total = dombilling.Total(base, exp.VATRate, exp.IRPFRate)
		exp.ProportionPercent = decimal.NewFromInt(100)
		exp.PeriodStart, exp.PeriodEnd = nil, nil
		exp.DaysBilled, exp.DaysInMonth = 0, 0
		return nil
	}

	start, err := parseDatePtr("period_start", periodStart)
	if err != nil {
		return err
	}
	end, err := parseDatePtr("period_end", periodEnd)
	if err != nil {
		return err
	}
	if err := dombilling.ValidatePeriod(start, end); err != nil {
		return err
	}
	if month == "" {
		month = start.Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return domain.Validationf("corresponding_month", "mes inválido, se espera YYYY-MM")
	}

	p := dombilling.Prorate(base, exp.VATRate, exp.IRPFRate, start, end)
	exp.PeriodStart, exp.PeriodEnd = start, end
	exp.CorrespondingMonth = month
	exp.TaxBase = p.ProratedBase
	exp.DaysBilled = p.DaysBilled
	exp.DaysInMonth = p.DaysInMonth
	exp.ProportionPercent = p.ProportionPercent
	exp.VATAmount = p.VATAmount
	exp.IRPFAmount = p.IRPFAmount
	exp.Total = p.Total
	return nil
}

func (uc *ExpenseUseCase) persistNew(ctx context.Context, exp *entity.Expense) error {
	family := dombilling.ExpenseFamily(exp.Kind)
	prefix := family.NumberPrefix(exp.IsRefund)
	return uc.txRunner.RunBilling(ctx, func(_ repository.InvoiceRepository, expRepo repository.ExpenseRepository, locker repository.FamilyLocker) error {
		if err := locker.LockFamily(prefix); err != nil {
			return err
		}
		existing, err := expRepo.ListByPropertyAndMonth(exp.Kind, exp.PropertyID, exp.AccountingMonth())
		if err != nil {
			return err
		}
		if dombilling.ExpenseConflicts(exp, existing) {
			return &domain.DuplicateError{Family: family.Code, Subject: exp.PropertyID, Period: exp.AccountingMonth()}
		}
		last, err := expRepo.LastNumber(prefix)
		if err != nil {
			return err
		}
		exp.Number = dombilling.NextNumber(last, prefix)
		return expRepo.Create(exp)
	})
}

// Update modifica un gasto. Campos omitidos conservan el valor almacenado;
// base y total se recalculan siempre.
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	exp, err := uc.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, &domain.NotFoundError{Resource: "gasto", ID: id}
	}
	if exp.IsRefund {
		return nil, &domain.StateError{Reason: "un abono solo admite cambios de estado de pago"}
	}

	if in.Number != nil && *in.Number != exp.Number {
		other, err := uc.expenseRepo.GetByNumber(exp.Kind, *in.Number)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != exp.ID {
			return nil, &domain.DuplicateError{Family: dombilling.ExpenseFamily(exp.Kind).Code, Subject: *in.Number, Period: ""}
		}
		exp.Number = *in.Number
	}
	if in.Concept != nil {
		exp.Concept = *in.Concept
	}
	if in.IssueDate != nil {
		issue, err := parseDate("issue_date", *in.IssueDate)
		if err != nil {
			return nil, err
		}
		exp.IssueDate = issue
	}
	if in.Lines != nil {
		lines := toLines(*in.Lines)
		for _, l := range lines.Slice() {
			if l.IsNegative() {
				return nil, domain.Validationf("lines", "las líneas de coste no pueden ser negativas")
			}
		}
		exp.Lines = lines
	}
	if in.VATRate != nil {
		if err := uc.policy.ValidateVAT(*in.VATRate); err != nil {
			return nil, err
		}
		exp.VATRate = *in.VATRate
	}
	if in.IRPFRate != nil {
		if err := uc.policy.ValidateIRPF(*in.IRPFRate); err != nil {
			return nil, err
		}
		exp.IRPFRate = *in.IRPFRate
	}

	proportional := exp.Proportional
	startStr, endStr := "", ""
	if exp.PeriodStart != nil {
		startStr = exp.PeriodStart.Format(dateLayout)
	}
	if exp.PeriodEnd != nil {
		endStr = exp.PeriodEnd.Format(dateLayout)
	}
	if in.PeriodStart != nil {
		proportional, startStr = true, *in.PeriodStart
	}
	if in.PeriodEnd != nil {
		proportional, endStr = true, *in.PeriodEnd
	}
	month := exp.CorrespondingMonth
	if in.CorrespondingMonth != nil {
		month = *in.CorrespondingMonth
	}
	if err := uc.computeAmounts(exp, proportional, startStr, endStr, month); err != nil {
		return nil, err
	}

	exp.UpdatedAt = time.Now()
	if err := uc.expenseRepo.Update(exp); err != nil {
		return nil, err
	}
	return toExpenseResponse(exp), nil
}

// Delete elimina el gasto de forma definitiva.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	affected, err := uc.expenseRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "gasto", ID: id}
	}
	return nil
}

// CreateRefund genera el abono de un gasto: cada línea pasa a -abs(valor) —
// las líneas a cero quedan a cero — y el total se recalcula por la ruta
// común en lugar de negar el total del original.
func (uc *ExpenseUseCase) CreateRefund(ctx context.Context, originalID string, in dto.RefundInvoiceRequest) (*dto.ExpenseResponse, error) {
	orig, err := uc.expenseRepo.GetByID(originalID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, &domain.NotFoundError{Resource: "gasto", ID: originalID}
	}
	if orig.IsRefund {
		return nil, &domain.StateError{Reason: "un abono no puede abonarse (no hay rectificación encadenada)"}
	}

	issue := time.Now()
	if in.IssueDate != "" {
		if issue, err = parseDate("issue_date", in.IssueDate); err != nil {
			return nil, err
		}
	}
	concept := in.Concept
	if concept == "" {
		concept = "Abono de " + orig.Number
	}

	negBase := orig.TaxBase.Abs().Neg()
	now := time.Now()
	refund := &entity.Expense{
		ID:                 uuid.New().String(),
		Kind:               orig.Kind,
		OwnerID:            orig.OwnerID,
		PropertyID:         orig.PropertyID,
		Concept:            concept,
		IssueDate:          issue,
		Lines:              orig.Lines.Negate(),
		VATRate:            orig.VATRate,
		IRPFRate:           orig.IRPFRate,
		Proportional:       orig.Proportional,
		PeriodStart:        orig.PeriodStart,
		PeriodEnd:          orig.PeriodEnd,
		CorrespondingMonth: orig.CorrespondingMonth,
		DaysBilled:         orig.DaysBilled,
		DaysInMonth:        orig.DaysInMonth,
		ProportionPercent:  orig.ProportionPercent,
		TaxBase:            negBase,
		VATAmount:          dombilling.VATAmount(negBase, orig.VATRate),
		IRPFAmount:         dombilling.IRPFAmount(negBase, orig.IRPFRate),
		Total:              dombilling.Total(negBase, orig.VATRate, orig.IRPFRate),
		IsRefund:           true,
		OriginalID:         orig.ID,
		PaymentStatus:      dombilling.StatusPendiente,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.persistNew(ctx, refund); err != nil {
		return nil, err
	}
	return toExpenseResponse(refund), nil
}

// UpdatePaymentStatus aplica la máquina de estados de pago al gasto.
func (uc *ExpenseUseCase) UpdatePaymentStatus(ctx context.Context, id string, in dto.PaymentStatusRequest) (*dto.ExpenseResponse, error) {
	exp, err := uc.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, &domain.NotFoundError{Resource: "gasto", ID: id}
	}
	var date *time.Time
	if in.Date != "" {
		if date, err = parseDatePtr("date", in.Date); err != nil {
			return nil, err
		}
	}
	next, err := dombilling.Transition(
		dombilling.Payment{Status: exp.PaymentStatus, Date: exp.PaymentDate, Method: exp.PaymentMethod, Reference: exp.PaymentReference},
		dombilling.Payment{Status: in.Status, Date: date, Method: in.Method, Reference: in.Reference},
		time.Now(),
	)
	if err != nil {
		return nil, err
	}
	exp.PaymentStatus = next.Status
	exp.PaymentDate = next.Date
	exp.PaymentMethod = next.Method
	exp.PaymentReference = next.Reference
	exp.UpdatedAt = time.Now()
	if err := uc.expenseRepo.Update(exp); err != nil {
		return nil, err
	}
	return toExpenseResponse(exp), nil
}

// GetByID devuelve el gasto completo.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	exp, err := uc.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, &domain.NotFoundError{Resource: "gasto", ID: id}
	}
	return toExpenseResponse(exp), nil
}

// List devuelve los gastos de una familia.
func (uc *ExpenseUseCase) List(ctx context.Context, kind entity.ExpenseKind) ([]*dto.ExpenseResponse, error) {
	if !entity.ValidExpenseKind(kind) {
		return nil, domain.Validationf("kind", "clase desconocida %q", string(kind))
	}
	list, err := uc.expenseRepo.ListByKind(kind)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ExpenseResponse, 0, len(list))
	for _, exp := range list {
		out = append(out, toExpenseResponse(exp))
	}
	return out, nil
}

func toLines(in dto.CostLinesDTO) entity.CostLines {
	return entity.CostLines{
		Rent:        in.Rent,
		Electricity: in.Electricity,
		Gas:         in.Gas,
		Water:       in.Water,
		Community:   in.Community,
		Insurance:   in.Insurance,
		Waste:       in.Waste,
		Other:       in.Other,
	}
}

func toLinesDTO(in entity.CostLines) dto.CostLinesDTO {
	return dto.CostLinesDTO{
		Rent:        in.Rent,
		Electricity: in.Electricity,
		Gas:         in.Gas,
		Water:       in.Water,
		Community:   in.Community,
		Insurance:   in.Insurance,
		Waste:       in.Waste,
		Other:       in.Other,
	}
}

func toExpenseResponse(exp *entity.Expense) *dto.ExpenseResponse {
	resp := &dto.ExpenseResponse{
		ID:                 exp.ID,
		Kind:               string(exp.Kind),
		Number:             exp.Number,
		OwnerID:            exp.OwnerID,
		PropertyID:         exp.PropertyID,
		Concept:            exp.Concept,
		IssueDate:          exp.IssueDate.Format(dateLayout),
		Lines:              toLinesDTO(exp.Lines),
		TaxBase:            exp.TaxBase,
		VATRate:            exp.VATRate,
		IRPFRate:           exp.IRPFRate,
		VATAmount:          exp.VATAmount,
		IRPFAmount:         exp.IRPFAmount,
		Total:              exp.Total,
		Proportional:       exp.Proportional,
		CorrespondingMonth: exp.CorrespondingMonth,
		DaysBilled:         exp.DaysBilled,
		DaysInMonth:        exp.DaysInMonth,
		ProportionPercent:  exp.ProportionPercent,
		IsRefund:           exp.IsRefund,
		OriginalID:         exp.OriginalID,
		PaymentStatus:      exp.PaymentStatus,
		PaymentMethod:      exp.PaymentMethod,
		PaymentReference:   exp.PaymentReference,
	}
	if exp.PeriodStart != nil {
		resp.PeriodStart = exp.PeriodStart.Format(dateLayout)
	}
	if exp.PeriodEnd != nil {
		resp.PeriodEnd = exp.PeriodEnd.Format(dateLayout)
	}
	if exp.PaymentDate != nil {
		resp.PaymentDate = exp.PaymentDate.Format(dateLayout)
	}
	return resp
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.Validationf(field, "requerido")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, domain.Validationf(field, "fecha inválida, se espera YYYY-MM-DD")
	}
	return t, nil
}

func parseDatePtr(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

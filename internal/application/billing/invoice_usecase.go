package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	dombilling "github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase orquesta el ciclo de vida de facturas y recibos: alta,
// modificación, borrado, abonos y estado de cobro.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	txRunner    BillingTxRunner
	policy      dombilling.RatePolicy
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, txRunner BillingTxRunner, policy dombilling.RatePolicy) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo, txRunner: txRunner, policy: policy}
}

// Create valida, calcula importes (prorrateando si procede), comprueba
// duplicados, asigna consecutivo y persiste — todo dentro de una transacción
// serializada por familia.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	kind := entity.InvoiceKind(in.Kind)
	if !entity.ValidInvoiceKind(kind) {
		return nil, domain.Validationf("kind", "clase desconocida %q", in.Kind)
	}
	if in.OwnerID == "" {
		return nil, domain.Validationf("owner_id", "requerido")
	}
	if in.PropertyID == "" {
		return nil, domain.Validationf("property_id", "requerido")
	}
	// Las facturas recibidas no llevan inquilino; el resto sí.
	if in.ClientID == "" && kind != entity.InvoiceRecibida {
		return nil, domain.Validationf("client_id", "requerido")
	}
	issue, err := parseDate("issue_date", in.IssueDate)
	if err != nil {
		return nil, err
	}
	if in.TaxBase.IsNegative() {
		return nil, domain.Validationf("tax_base", "no puede ser negativa")
	}
	if err := uc.policy.ValidateVAT(in.VATRate); err != nil {
		return nil, err
	}
	if err := uc.policy.ValidateIRPF(in.IRPFRate); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Kind:          kind,
		OwnerID:       in.OwnerID,
		ClientID:      in.ClientID,
		PropertyID:    in.PropertyID,
		Concept:       in.Concept,
		IssueDate:     issue,
		VATRate:       in.VATRate,
		IRPFRate:      in.IRPFRate,
		PaymentStatus: dombilling.StatusPendiente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.DueDate != "" {
		due, err := parseDate("due_date", in.DueDate)
		if err != nil {
			return nil, err
		}
		inv.DueDate = &due
	}

	if err := uc.computeAmounts(inv, in.TaxBase, in.Proportional, in.PeriodStart, in.PeriodEnd, in.CorrespondingMonth); err != nil {
		return nil, err
	}

	family := dombilling.InvoiceFamily(kind)
	if err := uc.persistNew(ctx, inv, family); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// computeAmounts calcula base, cuotas y total del documento, prorrateando
// cuando es proporcional. La base recibida es la del periodo completo; en
// inv queda la fracción facturable.
func (uc *InvoiceUseCase) computeAmounts(inv *entity.Invoice, base decimal.Decimal, proportional bool, periodStart, periodEnd, month string) error {
	inv.Proportional = proportional
	if !proportional {
		if month != "" {
			if err := validateMonth(month); err != nil {
				return err
			}
			inv.CorrespondingMonth = month
		}
		inv.TaxBase = base
		inv.VATAmount = dombilling.VATAmount(base, inv.VATRate)
		inv.IRPFAmount = dombilling.IRPFAmount(base, inv.IRPFRate)
		inv.Total = dombilling.Total(base, inv.VATRate, inv.IRPFRate)
		inv.ProportionPercent = decimal.NewFromInt(100)
		inv.PeriodStart, inv.PeriodEnd = nil, nil
		inv.DaysBilled, inv.DaysInMonth = 0, 0
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
	} else if err := validateMonth(month); err != nil {
		return err
	}

	p := dombilling.Prorate(base, inv.VATRate, inv.IRPFRate, start, end)
	inv.PeriodStart, inv.PeriodEnd = start, end
	inv.CorrespondingMonth = month
	inv.TaxBase = p.ProratedBase
	inv.DaysBilled = p.DaysBilled
	inv.DaysInMonth = p.DaysInMonth
	inv.ProportionPercent = p.ProportionPercent
	inv.VATAmount = p.VATAmount
	inv.IRPFAmount = p.IRPFAmount
	inv.Total = p.Total
	return nil
}

// persistNew ejecuta bajo el lock de familia: duplicados → consecutivo → insert.
func (uc *InvoiceUseCase) persistNew(ctx context.Context, inv *entity.Invoice, family dombilling.Family) error {
	prefix := family.NumberPrefix(inv.IsRefund)
	return uc.txRunner.RunBilling(ctx, func(invRepo repository.InvoiceRepository, _ repository.ExpenseRepository, locker repository.FamilyLocker) error {
		if err := locker.LockFamily(prefix); err != nil {
			return err
		}
		existing, err := invRepo.ListBySubjectAndMonth(inv.Kind, inv.OwnerID, inv.PropertyID, inv.AccountingMonth())
		if err != nil {
			return err
		}
		if dombilling.InvoiceConflicts(inv, existing) {
			return &domain.DuplicateError{Family: family.Code, Subject: inv.SubjectKey(), Period: inv.AccountingMonth()}
		}
		last, err := invRepo.LastNumber(prefix)
		if err != nil {
			return err
		}
		inv.Number = dombilling.NextNumber(last, prefix)
		return invRepo.Create(inv)
	})
}

// Update modifica un documento existente. Los campos omitidos conservan el
// valor almacenado y el total se recalcula siempre en el servidor. El
// inmueble asociado es inmutable tras la creación.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: id}
	}
	if inv.IsRefund {
		return nil, &domain.StateError{Reason: "un abono solo admite cambios de estado de cobro"}
	}

	if in.Number != nil && *in.Number != inv.Number {
		other, err := uc.invoiceRepo.GetByNumber(inv.Kind, *in.Number)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != inv.ID {
			return nil, &domain.DuplicateError{Family: dombilling.InvoiceFamily(inv.Kind).Code, Subject: *in.Number, Period: ""}
		}
		inv.Number = *in.Number
	}
	if in.ClientID != nil {
		inv.ClientID = *in.ClientID
	}
	if in.Concept != nil {
		inv.Concept = *in.Concept
	}
	if in.IssueDate != nil {
		issue, err := parseDate("issue_date", *in.IssueDate)
		if err != nil {
			return nil, err
		}
		inv.IssueDate = issue
	}
	if in.DueDate != nil {
		due, err := parseDatePtr("due_date", *in.DueDate)
		if err != nil {
			return nil, err
		}
		inv.DueDate = due
	}
	if in.VATRate != nil {
		if err := uc.policy.ValidateVAT(*in.VATRate); err != nil {
			return nil, err
		}
		inv.VATRate = *in.VATRate
	}
	if in.IRPFRate != nil {
		if err := uc.policy.ValidateIRPF(*in.IRPFRate); err != nil {
			return nil, err
		}
		inv.IRPFRate = *in.IRPFRate
	}

	switch {
	case in.PeriodStart != nil || in.PeriodEnd != nil:
		// Cambiar el periodo obliga a reaportar la base completa: la base
		// almacenada ya está prorrateada y no puede reprorratearse.
		if in.TaxBase == nil {
			return nil, domain.Validationf("tax_base", "requerido al modificar el periodo")
		}
		start, end := inv.PeriodStart, inv.PeriodEnd
		if in.PeriodStart != nil {
			if start, err = parseDatePtr("period_start", *in.PeriodStart); err != nil {
				return nil, err
			}
		}
		if in.PeriodEnd != nil {
			if end, err = parseDatePtr("period_end", *in.PeriodEnd); err != nil {
				return nil, err
			}
		}
		month := inv.CorrespondingMonth
		if in.CorrespondingMonth != nil {
			month = *in.CorrespondingMonth
		}
		if in.TaxBase.IsNegative() {
			return nil, domain.Validationf("tax_base", "no puede ser negativa")
		}
		startStr, endStr := "", ""
		if start != nil {
			startStr = start.Format(dateLayout)
		}
		if end != nil {
			endStr = end.Format(dateLayout)
		}
		if err := uc.computeAmounts(inv, *in.TaxBase, true, startStr, endStr, month); err != nil {
			return nil, err
		}
	case in.TaxBase != nil:
		if in.TaxBase.IsNegative() {
			return nil, domain.Validationf("tax_base", "no puede ser negativa")
		}
		if inv.Proportional {
			startStr, endStr := inv.PeriodStart.Format(dateLayout), inv.PeriodEnd.Format(dateLayout)
			if err := uc.computeAmounts(inv, *in.TaxBase, true, startStr, endStr, inv.CorrespondingMonth); err != nil {
				return nil, err
			}
		} else {
			month := inv.CorrespondingMonth
			if in.CorrespondingMonth != nil {
				month = *in.CorrespondingMonth
			}
			if err := uc.computeAmounts(inv, *in.TaxBase, false, "", "", month); err != nil {
				return nil, err
			}
		}
	default:
		// Sin base nueva: recalcular cuotas y total sobre la base almacenada
		// (ya prorrateada si el documento es proporcional).
		if in.CorrespondingMonth != nil {
			if err := validateMonth(*in.CorrespondingMonth); err != nil {
				return nil, err
			}
			inv.CorrespondingMonth = *in.CorrespondingMonth
		}
		inv.VATAmount = dombilling.VATAmount(inv.TaxBase, inv.VATRate)
		inv.IRPFAmount = dombilling.IRPFAmount(inv.TaxBase, inv.IRPFRate)
		inv.Total = dombilling.Total(inv.TaxBase, inv.VATRate, inv.IRPFRate)
	}

	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina el documento de forma definitiva. No hay borrado lógico y
// el consecutivo no se reutiliza jamás.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	affected, err := uc.invoiceRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "documento", ID: id}
	}
	return nil
}

// CreateRefund genera el abono (rectificativa) de un documento original:
// copia su clasificación, niega cada importe como -abs(valor) y recalcula el
// total por la misma ruta de cálculo que los originales. El abono lleva su
// propio contador y prefijo.
func (uc *InvoiceUseCase) CreateRefund(ctx context.Context, originalID string, in dto.RefundInvoiceRequest) (*dto.InvoiceResponse, error) {
	orig, err := uc.invoiceRepo.GetByID(originalID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: originalID}
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
	refund := &entity.Invoice{
		ID:         uuid.New().String(),
		Kind:       orig.Kind,
		OwnerID:    orig.OwnerID,
		ClientID:   orig.ClientID,
		PropertyID: orig.PropertyID,
		Concept:    concept,
		IssueDate:  issue,
		VATRate:    orig.VATRate,
		IRPFRate:   orig.IRPFRate,
		// Clasificación del original copiada literal.
		Proportional:       orig.Proportional,
		PeriodStart:        orig.PeriodStart,
		PeriodEnd:          orig.PeriodEnd,
		CorrespondingMonth: orig.CorrespondingMonth,
		DaysBilled:         orig.DaysBilled,
		DaysInMonth:        orig.DaysInMonth,
		ProportionPercent:  orig.ProportionPercent,
		// La base del original ya está prorrateada: se niega sin reprorratear
		// y el total se recalcula con la fórmula común.
		TaxBase:       negBase,
		VATAmount:     dombilling.VATAmount(negBase, orig.VATRate),
		IRPFAmount:    dombilling.IRPFAmount(negBase, orig.IRPFRate),
		Total:         dombilling.Total(negBase, orig.VATRate, orig.IRPFRate),
		IsRefund:      true,
		OriginalID:    orig.ID,
		PaymentStatus: dombilling.StatusPendiente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	family := dombilling.InvoiceFamily(orig.Kind)
	if err := uc.persistNew(ctx, refund, family); err != nil {
		return nil, err
	}
	return toInvoiceResponse(refund), nil
}

// UpdatePaymentStatus aplica la máquina de estados de cobro al documento.
func (uc *InvoiceUseCase) UpdatePaymentStatus(ctx context.Context, id string, in dto.PaymentStatusRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: id}
	}
	var date *time.Time
	if in.Date != "" {
		if date, err = parseDatePtr("date", in.Date); err != nil {
			return nil, err
		}
	}
	next, err := dombilling.Transition(
		dombilling.Payment{Status: inv.PaymentStatus, Date: inv.PaymentDate, Method: inv.PaymentMethod, Reference: inv.PaymentReference},
		dombilling.Payment{Status: in.Status, Date: date, Method: in.Method, Reference: in.Reference},
		time.Now(),
	)
	if err != nil {
		return nil, err
	}
	inv.PaymentStatus = next.Status
	inv.PaymentDate = next.Date
	inv.PaymentMethod = next.Method
	inv.PaymentReference = next.Reference
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// MarkOverdue pasa a VENCIDA los documentos PENDIENTE cuyo vencimiento es
// anterior a asOf. Es el disparo temporal externo de la máquina de estados;
// lo invoca el llamante (cron o petición), nunca un temporizador interno.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	pending, err := uc.invoiceRepo.ListPendingDueBefore(asOf)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, inv := range pending {
		next, err := dombilling.Transition(
			dombilling.Payment{Status: inv.PaymentStatus, Date: inv.PaymentDate, Method: inv.PaymentMethod, Reference: inv.PaymentReference},
			dombilling.Payment{Status: dombilling.StatusVencida},
			asOf,
		)
		if err != nil {
			return count, err
		}
		inv.PaymentStatus = next.Status
		inv.UpdatedAt = time.Now()
		if err := uc.invoiceRepo.Update(inv); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// GetByID devuelve el documento completo.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: id}
	}
	return toInvoiceResponse(inv), nil
}

// List devuelve los documentos de una familia.
func (uc *InvoiceUseCase) List(ctx context.Context, kind entity.InvoiceKind) ([]*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceKind(kind) {
		return nil, domain.Validationf("kind", "clase desconocida %q", string(kind))
	}
	list, err := uc.invoiceRepo.ListByKind(kind)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		Kind:               string(inv.Kind),
		Number:             inv.Number,
		OwnerID:            inv.OwnerID,
		ClientID:           inv.ClientID,
		PropertyID:         inv.PropertyID,
		Concept:            inv.Concept,
		IssueDate:          inv.IssueDate.Format(dateLayout),
		TaxBase:            inv.TaxBase,
		VATRate:            inv.VATRate,
		IRPFRate:           inv.IRPFRate,
		VATAmount:          inv.VATAmount,
		IRPFAmount:         inv.IRPFAmount,
		Total:              inv.Total,
		Proportional:       inv.Proportional,
		CorrespondingMonth: inv.CorrespondingMonth,
		DaysBilled:         inv.DaysBilled,
		DaysInMonth:        inv.DaysInMonth,
		ProportionPercent:  inv.ProportionPercent,
		IsRefund:           inv.IsRefund,
		OriginalID:         inv.OriginalID,
		PaymentStatus:      inv.PaymentStatus,
		PaymentMethod:      inv.PaymentMethod,
		PaymentReference:   inv.PaymentReference,
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format(dateLayout)
	}
	if inv.PeriodStart != nil {
		resp.PeriodStart = inv.PeriodStart.Format(dateLayout)
	}
	if inv.PeriodEnd != nil {
		resp.PeriodEnd = inv.PeriodEnd.Format(dateLayout)
	}
	if inv.PaymentDate != nil {
		resp.PaymentDate = inv.PaymentDate.Format(dateLayout)
	}
	if !inv.CreatedAt.IsZero() {
		resp.CreatedAt = inv.CreatedAt.Format(time.RFC3339)
	}
	if !inv.UpdatedAt.IsZero() {
		resp.UpdatedAt = inv.UpdatedAt.Format(time.RFC3339)
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

func validateMonth(s string) error {
	if _, err := time.Parse("2006-01", s); err != nil {
		return domain.Validationf("corresponding_month", "mes inválido, se espera YYYY-MM")
	}
	return nil
}

package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/serranomp/fincas-api/internal/domain/billing"
	"github.com/serranomp/fincas-api/internal/domain/entity"
)

func invoiceFor(owner, property, issue string) *entity.Invoice {
	return &entity.Invoice{
		ID:         "inv-" + owner + property + issue,
		Kind:       entity.InvoiceRecibo,
		OwnerID:    owner,
		PropertyID: property,
		IssueDate:  day(issue),
	}
}

func TestInvoiceConflicts(t *testing.T) {
	existing := []*entity.Invoice{invoiceFor("o1", "p1", "2025-07-05")}

	t.Run("mismo propietario, inmueble y mes", func(t *testing.T) {
		cand := invoiceFor("o1", "p1", "2025-07-20")
		cand.ID = ""
		assert.True(t, billing.InvoiceConflicts(cand, existing))
	})
	t.Run("otro mes no colisiona", func(t *testing.T) {
		assert.False(t, billing.InvoiceConflicts(invoiceFor("o1", "p1", "2025-08-05"), existing))
	})
	t.Run("otro inmueble no colisiona", func(t *testing.T) {
		assert.False(t, billing.InvoiceConflicts(invoiceFor("o1", "p2", "2025-07-05"), existing))
	})
	t.Run("los abonos quedan fuera de la regla", func(t *testing.T) {
		cand := invoiceFor("o1", "p1", "2025-07-20")
		cand.IsRefund = true
		assert.False(t, billing.InvoiceConflicts(cand, existing))

		refundExisting := invoiceFor("o1", "p1", "2025-07-05")
		refundExisting.IsRefund = true
		assert.False(t, billing.InvoiceConflicts(invoiceFor("o1", "p1", "2025-07-20"),
			[]*entity.Invoice{refundExisting}))
	})
	t.Run("el mes contable manda sobre la fecha de emisión", func(t *testing.T) {
		cand := invoiceFor("o1", "p1", "2025-08-02")
		cand.CorrespondingMonth = "2025-07"
		assert.True(t, billing.InvoiceConflicts(cand, existing))
	})
	t.Run("en update el propio documento no cuenta", func(t *testing.T) {
		same := invoiceFor("o1", "p1", "2025-07-05")
		assert.False(t, billing.InvoiceConflicts(same, []*entity.Invoice{same}))
	})
}

func expenseFor(property, issue string, lines entity.CostLines) *entity.Expense {
	return &entity.Expense{
		ID:         "exp-" + property + issue,
		Kind:       entity.ExpenseAlquiler,
		PropertyID: property,
		IssueDate:  day(issue),
		Lines:      lines,
	}
}

// TestExpenseConflicts ejercita la heurística línea a línea: basta una línea
// positiva idéntica para declarar duplicado.
func TestExpenseConflicts(t *testing.T) {
	existing := []*entity.Expense{expenseFor("p1", "2025-07-03", entity.CostLines{
		Rent:        decimal.NewFromInt(900),
		Electricity: decimal.NewFromFloat(54.30),
	})}

	t.Run("una línea idéntica colisiona", func(t *testing.T) {
		cand := expenseFor("p1", "2025-07-21", entity.CostLines{Electricity: decimal.NewFromFloat(54.30)})
		cand.ID = ""
		assert.True(t, billing.ExpenseConflicts(cand, existing))
	})
	t.Run("todas las líneas distintas no colisiona", func(t *testing.T) {
		cand := expenseFor("p1", "2025-07-21", entity.CostLines{
			Rent:        decimal.NewFromInt(901),
			Electricity: decimal.NewFromFloat(54.31),
		})
		assert.False(t, billing.ExpenseConflicts(cand, existing))
	})
	t.Run("líneas a cero en ambos no cuentan como coincidencia", func(t *testing.T) {
		cand := expenseFor("p1", "2025-07-21", entity.CostLines{Rent: decimal.NewFromInt(850)})
		assert.False(t, billing.ExpenseConflicts(cand, existing))
	})
	t.Run("otro inmueble u otro mes no colisiona", func(t *testing.T) {
		sameLines := entity.CostLines{Rent: decimal.NewFromInt(900)}
		assert.False(t, billing.ExpenseConflicts(expenseFor("p2", "2025-07-21", sameLines), existing))
		assert.False(t, billing.ExpenseConflicts(expenseFor("p1", "2025-08-21", sameLines), existing))
	})
	t.Run("abonos fuera de la regla", func(t *testing.T) {
		cand := expenseFor("p1", "2025-07-21", entity.CostLines{Rent: decimal.NewFromInt(900)})
		cand.IsRefund = true
		assert.False(t, billing.ExpenseConflicts(cand, existing))
	})
}

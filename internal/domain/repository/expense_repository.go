package repository

import "github.com/serranomp/fincas-api/internal/domain/entity"

// ExpenseRepository es el colaborador de persistencia de gastos.
type ExpenseRepository interface {
	LastNumber(prefix string) (string, error)
	GetByID(id string) (*entity.Expense, error)
	GetByNumber(kind entity.ExpenseKind, number string) (*entity.Expense, error)
	// ListByPropertyAndMonth devuelve los gastos de la familia imputados al
	// inmueble en el mes contable YYYY-MM (entrada de la regla de duplicados).
	ListByPropertyAndMonth(kind entity.ExpenseKind, propertyID, yearMonth string) ([]*entity.Expense, error)
	ListByKind(kind entity.ExpenseKind) ([]*entity.Expense, error)
	Create(exp *entity.Expense) error
	Update(exp *entity.Expense) error
	Delete(id string) (int64, error)
}

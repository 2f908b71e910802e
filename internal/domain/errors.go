package domain

import (
	"errors"
	"fmt"
)

// Errores centinela de dominio. Los tipos de error concretos de abajo
// responden a errors.Is contra su centinela, de modo que la capa HTTP pueda
// mapear cada clase de fallo a una respuesta distinta.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("documento duplicado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrState              = errors.New("transición de estado inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// ValidationError señala un campo ausente o malformado. Recuperable
// corrigiendo la entrada; nunca se reintenta.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: campo %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf construye un ValidationError con formato.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateError señala que ya existe un documento para el mismo sujeto y
// periodo contable. Se distingue de la validación genérica para que el
// llamante pueda ofrecer editar el existente.
type DuplicateError struct {
	Family  string
	Subject string
	Period  string // YYYY-MM
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicado: ya existe un documento %s para %s en %s", e.Family, e.Subject, e.Period)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError señala una referencia a un registro inexistente.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StateError señala una transición o referencia de estado inválida, por
// ejemplo intentar abonar un abono.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return "estado: " + e.Reason }

func (e *StateError) Is(target error) bool { return target == ErrState }

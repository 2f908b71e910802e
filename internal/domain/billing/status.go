package billing

import (
	"time"

	"github.com/serranomp/fincas-api/internal/domain"
)

// Estados de cobro/pago de un documento.
const (
	StatusPendiente = "PENDIENTE"
	StatusCobrada   = "COBRADA"
	StatusVencida   = "VENCIDA"
	StatusDisputada = "DISPUTADA"
)

// Métodos de pago admitidos.
const (
	MethodTransferencia = "TRANSFERENCIA"
	MethodDomiciliacion = "DOMICILIACION"
	MethodEfectivo      = "EFECTIVO"
	MethodTarjeta       = "TARJETA"
	MethodCheque        = "CHEQUE"
)

// ValidStatus indica si s pertenece a la enumeración cerrada de estados.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendiente, StatusCobrada, StatusVencida, StatusDisputada:
		return true
	}
	return false
}

// ValidMethod indica si m pertenece a la enumeración cerrada de métodos.
func ValidMethod(m string) bool {
	switch m {
	case MethodTransferencia, MethodDomiciliacion, MethodEfectivo, MethodTarjeta, MethodCheque:
		return true
	}
	return false
}

// Payment agrupa los campos de cobro de un documento.
type Payment struct {
	Status    string
	Date      *time.Time
	Method    string
	Reference string
}

// Transiciones permitidas por estado de origen. VENCIDA solo se alcanza desde
// PENDIENTE (disparo temporal externo); DISPUTADA desde PENDIENTE o COBRADA.
var allowedTransitions = map[string]map[string]bool{
	StatusPendiente: {StatusPendiente: true, StatusCobrada: true, StatusVencida: true, StatusDisputada: true},
	StatusCobrada:   {StatusCobrada: true, StatusPendiente: true, StatusDisputada: true},
	StatusVencida:   {StatusVencida: true, StatusCobrada: true, StatusPendiente: true},
	StatusDisputada: {StatusDisputada: true, StatusPendiente: true},
}

// Transition valida y aplica un cambio de estado de cobro.
//
//   - A COBRADA se exige fecha de cobro; si el llamante no la aporta se toma now.
//   - A PENDIENTE se borran fecha, método y referencia: retroceder elimina la
//     evidencia de cobro. Es intencionado, no un descuido — así una COBRADA no
//     puede volver a PENDIENTE conservando la fecha en silencio.
//
// Estado o método no reconocidos devuelven ValidationError; una transición no
// permitida devuelve StateError.
func Transition(current Payment, req Payment, now time.Time) (Payment, error) {
	from := current.Status
	if from == "" {
		from = StatusPendiente
	}
	if !ValidStatus(req.Status) {
		return Payment{}, domain.Validationf("payment_status", "estado desconocido %q", req.Status)
	}
	if req.Method != "" && !ValidMethod(req.Method) {
		return Payment{}, domain.Validationf("payment_method", "método desconocido %q", req.Method)
	}
	if !allowedTransitions[from][req.Status] {
		return Payment{}, &domain.StateError{Reason: "transición no permitida de " + from + " a " + req.Status}
	}

	next := Payment{Status: req.Status, Date: req.Date, Method: req.Method, Reference: req.Reference}
	switch req.Status {
	case StatusCobrada:
		if next.Date == nil {
			d := now
			next.Date = &d
		}
		if next.Method == "" {
			next.Method = current.Method
		}
		if next.Reference == "" {
			next.Reference = current.Reference
		}
	case StatusPendiente:
		next.Date = nil
		next.Method = ""
		next.Reference = ""
	default:
		// VENCIDA y DISPUTADA conservan la evidencia de cobro que hubiera.
		if next.Date == nil {
			next.Date = current.Date
		}
		if next.Method == "" {
			next.Method = current.Method
		}
		if next.Reference == "" {
			next.Reference = current.Reference
		}
	}
	return next, nil
}

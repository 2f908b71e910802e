package repository

import (
	"time"

	"github.com/serranomp/fincas-api/internal/domain/entity"
)

// InvoiceRepository es el colaborador de persistencia de facturas y recibos.
// El motor confía en que las referencias a sujetos existen; la integridad
// referencial la garantiza la base de datos.
type InvoiceRepository interface {
	// LastNumber devuelve el último consecutivo emitido con ese prefijo
	// ("" si la partición aún no tiene documentos).
	LastNumber(prefix string) (string, error)
	GetByID(id string) (*entity.Invoice, error)
	// GetByNumber localiza un documento por consecutivo dentro de su familia.
	GetByNumber(kind entity.InvoiceKind, number string) (*entity.Invoice, error)
	// ListBySubjectAndMonth devuelve los documentos de la familia para el
	// sujeto (propietario, inmueble) imputados al mes contable YYYY-MM.
	ListBySubjectAndMonth(kind entity.InvoiceKind, ownerID, propertyID, yearMonth string) ([]*entity.Invoice, error)
	ListByKind(kind entity.InvoiceKind) ([]*entity.Invoice, error)
	// ListPendingDueBefore devuelve documentos PENDIENTE con vencimiento
	// anterior a asOf (para el barrido de vencidas).
	ListPendingDueBefore(asOf time.Time) ([]*entity.Invoice, error)
	Create(inv *entity.Invoice) error
	Update(inv *entity.Invoice) error
	// Delete devuelve el número de filas afectadas (0 si no existía).
	Delete(id string) (int64, error)
}

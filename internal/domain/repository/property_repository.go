package repository

import "github.com/serranomp/fincas-api/internal/domain/entity"

// PropertyRepository persistencia de inmuebles.
type PropertyRepository interface {
	GetByID(id string) (*entity.Property, error)
	ListByOwner(ownerID string) ([]*entity.Property, error)
	List() ([]*entity.Property, error)
	Create(p *entity.Property) error
	Update(p *entity.Property) error
	Delete(id string) (int64, error)
}

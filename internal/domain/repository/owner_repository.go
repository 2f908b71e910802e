package repository

import "github.com/serranomp/fincas-api/internal/domain/entity"

// OwnerRepository persistencia de propietarios.
type OwnerRepository interface {
	GetByID(id string) (*entity.Owner, error)
	List() ([]*entity.Owner, error)
	Create(o *entity.Owner) error
	Update(o *entity.Owner) error
	Delete(id string) (int64, error)
}

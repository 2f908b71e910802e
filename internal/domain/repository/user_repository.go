package repository

import "github.com/serranomp/fincas-api/internal/domain/entity"

// UserRepository persistencia de usuarios del backoffice.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Create(u *entity.User) error
}

package repository

import "github.com/serranomp/fincas-api/internal/domain/entity"

// ClientRepository persistencia de inquilinos/clientes.
type ClientRepository interface {
	GetByID(id string) (*entity.Client, error)
	List() ([]*entity.Client, error)
	Create(c *entity.Client) error
	Update(c *entity.Client) error
	Delete(id string) (int64, error)
}

package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para inquilinos y clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create da de alta un inquilino/cliente.
func (uc *ClientUseCase) Create(in dto.ClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.Validationf("name", "requerido")
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIF:       in.NIF,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		Province:  in.Province,
		PostCode:  in.PostCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un inquilino/cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	return toClientResponse(client), nil
}

// Update modifica los datos de un inquilino/cliente.
func (uc *ClientUseCase) Update(id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	client.NIF = in.NIF
	client.Email = in.Email
	client.Phone = in.Phone
	client.Address = in.Address
	client.City = in.City
	client.Province = in.Province
	client.PostCode = in.PostCode
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista todos los inquilinos/clientes.
func (uc *ClientUseCase) List() ([]dto.ClientResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return items, nil
}

// Delete elimina un inquilino/cliente por ID.
func (uc *ClientUseCase) Delete(id string) error {
	affected, err := uc.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	return nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		NIF:      c.NIF,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		City:     c.City,
		Province: c.Province,
		PostCode: c.PostCode,
	}
}

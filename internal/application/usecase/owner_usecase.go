package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// OwnerUseCase casos de uso CRUD para propietarios.
type OwnerUseCase struct {
	repo repository.OwnerRepository
}

// NewOwnerUseCase construye el caso de uso.
func NewOwnerUseCase(repo repository.OwnerRepository) *OwnerUseCase {
	return &OwnerUseCase{repo: repo}
}

// Create da de alta un propietario. Nombre y NIF son obligatorios porque
// encabezan las facturas emitidas a su nombre.
func (uc *OwnerUseCase) Create(in dto.OwnerRequest) (*dto.OwnerResponse, error) {
	if in.Name == "" {
		return nil, domain.Validationf("name", "requerido")
	}
	if in.NIF == "" {
		return nil, domain.Validationf("nif", "requerido")
	}
	now := time.Now()
	owner := &entity.Owner{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIF:       in.NIF,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		Province:  in.Province,
		PostCode:  in.PostCode,
		IBAN:      in.IBAN,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(owner); err != nil {
		return nil, err
	}
	return toOwnerResponse(owner), nil
}

// GetByID obtiene un propietario por ID.
func (uc *OwnerUseCase) GetByID(id string) (*dto.OwnerResponse, error) {
	owner, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &domain.NotFoundError{Resource: "propietario", ID: id}
	}
	return toOwnerResponse(owner), nil
}

// Update modifica los datos de un propietario.
func (uc *OwnerUseCase) Update(id string, in dto.OwnerRequest) (*dto.OwnerResponse, error) {
	owner, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &domain.NotFoundError{Resource: "propietario", ID: id}
	}
	if in.Name != "" {
		owner.Name = in.Name
	}
	if in.NIF != "" {
		owner.NIF = in.NIF
	}
	owner.Email = in.Email
	owner.Phone = in.Phone
	owner.Address = in.Address
	owner.City = in.City
	owner.Province = in.Province
	owner.PostCode = in.PostCode
	owner.IBAN = in.IBAN
	owner.UpdatedAt = time.Now()
	if err := uc.repo.Update(owner); err != nil {
		return nil, err
	}
	return toOwnerResponse(owner), nil
}

// List lista todos los propietarios.
func (uc *OwnerUseCase) List() ([]dto.OwnerResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.OwnerResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOwnerResponse(o))
	}
	return items, nil
}

// Delete elimina un propietario por ID.
func (uc *OwnerUseCase) Delete(id string) error {
	affected, err := uc.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "propietario", ID: id}
	}
	return nil
}

func toOwnerResponse(o *entity.Owner) *dto.OwnerResponse {
	if o == nil {
		return nil
	}
	return &dto.OwnerResponse{
		ID:       o.ID,
		Name:     o.Name,
		NIF:      o.NIF,
		Email:    o.Email,
		Phone:    o.Phone,
		Address:  o.Address,
		City:     o.City,
		Province: o.Province,
		PostCode: o.PostCode,
		IBAN:     o.IBAN,
	}
}

package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

// PropertyUseCase casos de uso CRUD para inmuebles.
type PropertyUseCase struct {
	repo      repository.PropertyRepository
	ownerRepo repository.OwnerRepository
}

// NewPropertyUseCase construye el caso de uso.
func NewPropertyUseCase(repo repository.PropertyRepository, ownerRepo repository.OwnerRepository) *PropertyUseCase {
	return &PropertyUseCase{repo: repo, ownerRepo: ownerRepo}
}

// Create da de alta un inmueble asociado a un propietario existente.
func (uc *PropertyUseCase) Create(in dto.PropertyRequest) (*dto.PropertyResponse, error) {
	if in.Alias == "" {
		return nil, domain.Validationf("alias", "requerido")
	}
	if in.OwnerID == "" {
		return nil, domain.Validationf("owner_id", "requerido")
	}
	if in.MonthlyRent.IsNegative() {
		return nil, domain.Validationf("monthly_rent", "no puede ser negativa")
	}
	owner, err := uc.ownerRepo.GetByID(in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &domain.NotFoundError{Resource: "propietario", ID: in.OwnerID}
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	property := &entity.Property{
		ID:           uuid.New().String(),
		OwnerID:      in.OwnerID,
		Alias:        in.Alias,
		Address:      in.Address,
		City:         in.City,
		Province:     in.Province,
		PostCode:     in.PostCode,
		CadastralRef: in.CadastralRef,
		MonthlyRent:  in.MonthlyRent,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(property); err != nil {
		return nil, err
	}
	return toPropertyResponse(property), nil
}

// GetByID obtiene un inmueble por ID.
func (uc *PropertyUseCase) GetByID(id string) (*dto.PropertyResponse, error) {
	property, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &domain.NotFoundError{Resource: "inmueble", ID: id}
	}
	return toPropertyResponse(property), nil
}

// Update modifica un inmueble. El propietario no se reasigna: la facturación
// histórica del inmueble pertenece a quien lo era al emitirse.
func (uc *PropertyUseCase) Update(id string, in dto.PropertyRequest) (*dto.PropertyResponse, error) {
	property, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &domain.NotFoundError{Resource: "inmueble", ID: id}
	}
	if in.Alias != "" {
		property.Alias = in.Alias
	}
	if in.MonthlyRent.IsNegative() {
		return nil, domain.Validationf("monthly_rent", "no puede ser negativa")
	}
	if !in.MonthlyRent.IsZero() {
		property.MonthlyRent = in.MonthlyRent
	}
	property.Address = in.Address
	property.City = in.City
	property.Province = in.Province
	property.PostCode = in.PostCode
	property.CadastralRef = in.CadastralRef
	if in.Active != nil {
		property.Active = *in.Active
	}
	property.UpdatedAt = time.Now()
	if err := uc.repo.Update(property); err != nil {
		return nil, err
	}
	return toPropertyResponse(property), nil
}

// List lista inmuebles, opcionalmente filtrados por propietario.
func (uc *PropertyUseCase) List(ownerID string) ([]dto.PropertyResponse, error) {
	var (
		list []*entity.Property
		err  error
	)
	if ownerID != "" {
		list, err = uc.repo.ListByOwner(ownerID)
	} else {
		list, err = uc.repo.List()
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.PropertyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPropertyResponse(p))
	}
	return items, nil
}

// Delete elimina un inmueble por ID.
func (uc *PropertyUseCase) Delete(id string) error {
	affected, err := uc.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "inmueble", ID: id}
	}
	return nil
}

func toPropertyResponse(p *entity.Property) *dto.PropertyResponse {
	if p == nil {
		return nil
	}
	return &dto.PropertyResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Alias:        p.Alias,
		Address:      p.Address,
		City:         p.City,
		Province:     p.Province,
		PostCode:     p.PostCode,
		CadastralRef: p.CadastralRef,
		MonthlyRent:  p.MonthlyRent,
		Active:       p.Active,
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/application/usecase"
)

// OwnerHandler maneja las peticiones HTTP para propietarios (protegido).
type OwnerHandler struct {
	uc *usecase.OwnerUseCase
}

// NewOwnerHandler construye el handler.
func NewOwnerHandler(uc *usecase.OwnerUseCase) *OwnerHandler {
	return &OwnerHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un propietario
// @Tags         owners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OwnerRequest  true  "Datos del propietario"
// @Success      201   {object}  dto.OwnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/owners [post]
func (h *OwnerHandler) Create(c *fiber.Ctx) error {
	var in dto.OwnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener propietario por ID
// @Tags         owners
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del propietario"
// @Success      200  {object}  dto.OwnerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/owners/{id} [get]
func (h *OwnerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar propietarios
// @Tags         owners
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OwnerResponse
// @Router       /api/owners [get]
func (h *OwnerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar propietario
// @Tags         owners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del propietario"
// @Param        body  body  dto.OwnerRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.OwnerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/owners/{id} [put]
func (h *OwnerHandler) Update(c *fiber.Ctx) error {
	var in dto.OwnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar propietario
// @Tags         owners
// @Security     Bearer
// @Param        id  path  string  true  "ID del propietario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/owners/{id} [delete]
func (h *OwnerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

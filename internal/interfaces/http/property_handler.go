package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/application/usecase"
)

// PropertyHandler maneja las peticiones HTTP para inmuebles (protegido).
type PropertyHandler struct {
	uc *usecase.PropertyUseCase
}

// NewPropertyHandler construye el handler.
func NewPropertyHandler(uc *usecase.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un inmueble
// @Tags         properties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PropertyRequest  true  "Datos del inmueble"
// @Success      201   {object}  dto.PropertyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var in dto.PropertyRequest
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
// @Summary      Obtener inmueble por ID
// @Tags         properties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inmueble"
// @Success      200  {object}  dto.PropertyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [get]
func (h *PropertyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar inmuebles
// @Tags         properties
// @Security     Bearer
// @Produce      json
// @Param        owner_id  query  string  false  "Filtrar por propietario"
// @Success      200  {array}  dto.PropertyResponse
// @Router       /api/properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Query("owner_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar inmueble
// @Tags         properties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del inmueble"
// @Param        body  body  dto.PropertyRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PropertyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [put]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	var in dto.PropertyRequest
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
// @Summary      Eliminar inmueble
// @Tags         properties
// @Security     Bearer
// @Param        id  path  string  true  "ID del inmueble"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

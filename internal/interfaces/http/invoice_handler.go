package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/application/dto"
	"github.com/serranomp/fincas-api/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP de facturas y recibos (protegido).
type InvoiceHandler struct {
	uc     *billing.InvoiceUseCase
	pdfUC  *billing.InvoicePDFUseCase
	factUC *billing.FacturaeUseCase
	bookUC *billing.BookExportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfUC *billing.InvoicePDFUseCase,
	factUC *billing.FacturaeUseCase, bookUC *billing.BookExportUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC, factUC: factUC, bookUC: bookUC}
}

// Create godoc
// @Summary      Emitir factura o recibo
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Datos del documento"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos de una familia
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  true  "EMITIDA | RECIBIDA | RECIBO"
// @Success      200   {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	kind := entity.InvoiceKind(c.Query("kind", string(entity.InvoiceEmitida)))
	out, err := h.uc.List(c.UserContext(), kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar documento
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         invoices
// @Security     Bearer
// @Param        id  path  string  true  "ID del documento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateRefund godoc
// @Summary      Emitir abono (rectificativa) de un documento
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento original"
// @Param        body  body  dto.RefundInvoiceRequest  false  "Fecha y concepto del abono"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/refund [post]
func (h *InvoiceHandler) CreateRefund(c *fiber.Ctx) error {
	var in dto.RefundInvoiceRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateRefund(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePaymentStatus godoc
// @Summary      Cambiar estado de cobro
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.PaymentStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payment-status [put]
func (h *InvoiceHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var in dto.PaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdatePaymentStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkOverdue godoc
// @Summary      Marcar como vencidos los documentos pendientes con vencimiento pasado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/invoices/mark-overdue [post]
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	n, err := h.uc.MarkOverdue(c.UserContext(), time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"marked": n})
}

// DownloadPDF godoc
// @Summary      Descargar PDF del documento
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.Generate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ExportFacturae godoc
// @Summary      Exportar documento como XML Facturae
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/facturae [get]
func (h *InvoiceHandler) ExportFacturae(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.factUC.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}

// ExportBook godoc
// @Summary      Exportar libro registro de la familia (CSV ISO-8859-1)
// @Tags         invoices
// @Security     Bearer
// @Produce      text/csv
// @Param        kind  query  string  true  "EMITIDA | RECIBIDA | RECIBO"
// @Success      200  {file}  binary
// @Router       /api/invoices/book [get]
func (h *InvoiceHandler) ExportBook(c *fiber.Ctx) error {
	kind := entity.InvoiceKind(c.Query("kind", string(entity.InvoiceEmitida)))
	book, err := h.bookUC.Export(c.UserContext(), kind)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=ISO-8859-1")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="libro-`+string(kind)+`.csv"`)
	return c.Send(book)
}

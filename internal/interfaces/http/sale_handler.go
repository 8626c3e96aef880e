package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain"
)

// SaleHandler ventas: checkout, consulta, cancelación y comprobante.
type SaleHandler struct {
	uc *sales.SaleUseCase
	v  *Validator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, v *Validator) *SaleHandler {
	return &SaleHandler{uc: uc, v: v}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida cliente, stock, totales y pagos; todas las escrituras ocurren en una sola transacción.
// @Description  Acepta Idempotency-Key para reintentos seguros.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "Carrito y pagos"
// @Success      201  {object}  dto.MessageResponse{data=dto.SaleResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), Caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "venta registrada", out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "completed|pending|cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        from         query  string  false  "Desde (AAAA-MM-DD o RFC3339)"
// @Param        to           query  string  false  "Hasta (AAAA-MM-DD o RFC3339)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MessageResponse{data=dto.SaleListResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	q := dto.SaleListQuery{
		PageRequest: pageFrom(c),
		Status:      c.Query("status"),
		CustomerID:  c.Query("customer_id"),
		From:        from,
		To:          to,
	}
	if err := h.v.Struct(q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), Caller(c), targetCompany(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.MessageResponse{data=dto.SaleResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Revierte stock, totales del cliente y de la caja, y cancela las cuentas por cobrar abiertas.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la venta"
// @Param        body  body  dto.CancelRequest  true  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.SaleResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [put]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), Caller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "venta cancelada", out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if len(pdf) == 0 {
		return respondError(c, domain.ErrNotFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

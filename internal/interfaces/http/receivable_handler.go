package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/receivables"
)

// ReceivableHandler cuentas por cobrar.
type ReceivableHandler struct {
	uc *receivables.ReceivableUseCase
	v  *Validator
}

// NewReceivableHandler construye el handler.
func NewReceivableHandler(uc *receivables.ReceivableUseCase, v *Validator) *ReceivableHandler {
	return &ReceivableHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar cuentas por cobrar
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending|overdue|paid|cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        sale_id      query  string  false  "Venta"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MessageResponse{data=dto.ReceivableListResponse}
// @Router       /api/receivables [get]
func (h *ReceivableHandler) List(c *fiber.Ctx) error {
	q := receivables.ListQuery{
		PageRequest: pageFrom(c),
		Status:      c.Query("status"),
		CustomerID:  c.Query("customer_id"),
		SaleID:      c.Query("sale_id"),
	}
	out, err := h.uc.List(c.UserContext(), Caller(c), targetCompany(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// Overdue godoc
// @Summary      Cuentas vencidas
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MessageResponse{data=dto.ReceivableListResponse}
// @Router       /api/receivables/overdue [get]
func (h *ReceivableHandler) Overdue(c *fiber.Ctx) error {
	out, err := h.uc.Overdue(c.UserContext(), Caller(c), targetCompany(c), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// Summary godoc
// @Summary      Totales por estado
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse{data=dto.ReceivableSummaryResponse}
// @Router       /api/receivables/summary [get]
func (h *ReceivableHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), Caller(c), targetCompany(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// GetByID godoc
// @Summary      Obtener cuenta por cobrar
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.MessageResponse{data=dto.ReceivableResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// AddPayment godoc
// @Summary      Registrar pago
// @Description  Monto cero o ausente paga el saldo completo; el saldo nunca queda negativo.
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la cuenta"
// @Param        body  body  dto.ReceivablePaymentRequest  true  "Pago"
// @Success      200   {object}  dto.MessageResponse{data=dto.ReceivableResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/payments [post]
func (h *ReceivableHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.ReceivablePaymentRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddPayment(c.UserContext(), Caller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "pago registrado", out)
}

// PayBySalePayment godoc
// @Summary      Pagar la cuenta generada por un pago de venta
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        saleId     path  string                        true  "ID de la venta"
// @Param        paymentId  path  string                        true  "ID del pago de la venta"
// @Param        body       body  dto.ReceivablePaymentRequest  true  "Pago"
// @Success      200  {object}  dto.MessageResponse{data=dto.ReceivableResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivables/{saleId}/payment/{paymentId} [post]
func (h *ReceivableHandler) PayBySalePayment(c *fiber.Ctx) error {
	var in dto.ReceivablePaymentRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.PayBySalePayment(c.UserContext(), Caller(c), c.Params("saleId"), c.Params("paymentId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "pago registrado", out)
}

// Cancel godoc
// @Summary      Cancelar cuenta por cobrar
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la cuenta"
// @Param        body  body  dto.CancelRequest  true  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.ReceivableResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/cancel [put]
func (h *ReceivableHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), Caller(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "cuenta cancelada", out)
}

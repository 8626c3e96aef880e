package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/dto"
)

// CashRegisterHandler apertura y cierre de caja.
type CashRegisterHandler struct {
	uc *cashier.CashRegisterUseCase
	v  *Validator
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(uc *cashier.CashRegisterUseCase, v *Validator) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc, v: v}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashRegisterRequest  true  "Saldo inicial"
// @Success      201   {object}  dto.MessageResponse{data=dto.CashRegisterResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/open [post]
func (h *CashRegisterHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashRegisterRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Open(c.UserContext(), Caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "caja abierta", out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Esperado = apertura + efectivo - cambio; diferencia = contado - esperado.
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCashRegisterRequest  true  "Saldo contado"
// @Success      200   {object}  dto.MessageResponse{data=dto.CashRegisterResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/close [post]
func (h *CashRegisterHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRegisterRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Close(c.UserContext(), Caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "caja cerrada", out)
}

// Current godoc
// @Summary      Caja abierta del usuario
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse{data=dto.CashRegisterResponse}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/current [get]
func (h *CashRegisterHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), Caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// List godoc
// @Summary      Historial de cajas
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MessageResponse{data=dto.CashRegisterListResponse}
// @Router       /api/cash-registers [get]
func (h *CashRegisterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), Caller(c), targetCompany(c), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

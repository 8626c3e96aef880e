package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/purchasing"
)

// EntryHandler entradas de mercadería (permiso manage_entries).
type EntryHandler struct {
	uc *purchasing.EntryUseCase
	v  *Validator
}

// NewEntryHandler construye el handler.
func NewEntryHandler(uc *purchasing.EntryUseCase, v *Validator) *EntryHandler {
	return &EntryHandler{uc: uc, v: v}
}

// Create godoc
// @Summary      Registrar entrada
// @Description  Queda en estado pending; el stock se aplica al completarla.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "Documento fiscal, proveedor e ítems"
// @Success      201   {object}  dto.MessageResponse{data=dto.EntryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), Caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "entrada registrada", out)
}

// Update godoc
// @Summary      Actualizar entrada pendiente
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la entrada"
// @Param        body  body  dto.EntryRequest  true  "Documento fiscal, proveedor e ítems"
// @Success      200   {object}  dto.MessageResponse{data=dto.EntryResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [put]
func (h *EntryHandler) Update(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), Caller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "entrada actualizada", out)
}

// Complete godoc
// @Summary      Completar entrada
// @Description  Suma el stock de cada ítem y recalcula el costo promedio ponderado.
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.MessageResponse{data=dto.EntryResponse}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/complete [post]
func (h *EntryHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "entrada completada", out)
}

// Cancel godoc
// @Summary      Cancelar entrada
// @Description  Una entrada completada revierte su stock; falla si la mercadería ya fue vendida.
// @Description  También disponible como DELETE /api/entries/{id} (motivo en el cuerpo o en ?reason=).
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la entrada"
// @Param        body  body  dto.CancelRequest  true  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.EntryResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/cancel [put]
func (h *EntryHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	switch {
	case len(c.Body()) > 0:
		if err := h.v.bind(c, &in); err != nil {
			return respondError(c, err)
		}
	case c.Query("reason") != "":
		in.Reason = c.Query("reason")
	case c.Method() == fiber.MethodDelete:
		in.Reason = "entrada eliminada"
	}
	out, err := h.uc.Cancel(c.UserContext(), Caller(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "entrada cancelada", out)
}

// GetByID godoc
// @Summary      Obtener entrada
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.MessageResponse{data=dto.EntryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// List godoc
// @Summary      Listar entradas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|completed|cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MessageResponse{data=dto.EntryListResponse}
// @Router       /api/entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), Caller(c), targetCompany(c), c.Query("status"), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

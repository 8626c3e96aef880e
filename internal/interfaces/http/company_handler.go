package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CompanyHandler administración de empresas (solo admin).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
	v  *Validator
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, v *Validator) *CompanyHandler {
	return &CompanyHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar empresas
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|approved|rejected|inactive"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MessageResponse{data=dto.CompanyListResponse}
// @Router       /api/admin/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), Caller(c), c.Query("status"), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.MessageResponse{data=dto.CompanyResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), Caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "ok", out)
}

type statusChange func(ctx context.Context, caller entity.Caller, id string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error)

func (h *CompanyHandler) changeStatus(fn statusChange, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CompanyStatusRequest
		if len(c.Body()) > 0 {
			if err := h.v.bind(c, &in); err != nil {
				return respondError(c, err)
			}
		}
		out, err := fn(c.UserContext(), Caller(c), c.Params("id"), in)
		if err != nil {
			return respondError(c, err)
		}
		return ok(c, fiber.StatusOK, message, out)
	}
}

// Approve godoc
// @Summary      Aprobar empresa
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la empresa"
// @Param        body  body  dto.CompanyStatusRequest  false  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.CompanyResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id}/approve [put]
func (h *CompanyHandler) Approve(c *fiber.Ctx) error {
	return h.changeStatus(h.uc.Approve, "empresa aprobada")(c)
}

// Reject godoc
// @Summary      Rechazar empresa
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la empresa"
// @Param        body  body  dto.CompanyStatusRequest  false  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.CompanyResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id}/reject [put]
func (h *CompanyHandler) Reject(c *fiber.Ctx) error {
	return h.changeStatus(h.uc.Reject, "empresa rechazada")(c)
}

// Deactivate godoc
// @Summary      Desactivar empresa
// @Tags         admin
// @Security     Bearer
// @Param        id    path  string                    true   "ID de la empresa"
// @Param        body  body  dto.CompanyStatusRequest  false  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.CompanyResponse}
// @Router       /api/admin/companies/{id}/deactivate [put]
func (h *CompanyHandler) Deactivate(c *fiber.Ctx) error {
	return h.changeStatus(h.uc.Deactivate, "empresa desactivada")(c)
}

// Reactivate godoc
// @Summary      Reactivar empresa
// @Tags         admin
// @Security     Bearer
// @Param        id    path  string                    true   "ID de la empresa"
// @Param        body  body  dto.CompanyStatusRequest  false  "Motivo"
// @Success      200   {object}  dto.MessageResponse{data=dto.CompanyResponse}
// @Router       /api/admin/companies/{id}/reactivate [put]
func (h *CompanyHandler) Reactivate(c *fiber.Ctx) error {
	return h.changeStatus(h.uc.Reactivate, "empresa reactivada")(c)
}

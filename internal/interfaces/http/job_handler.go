package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// OverdueEnqueuer encola el barrido de vencidos en el worker.
type OverdueEnqueuer interface {
	EnqueueMarkOverdue(ctx context.Context, requestedBy string) (string, error)
}

// OverdueMarker ejecuta el barrido en línea (sin Redis).
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

// JobHandler disparo manual de jobs (solo admin).
type JobHandler struct {
	queue  OverdueEnqueuer
	inline OverdueMarker
}

// NewJobHandler construye el handler. Con queue nil el barrido corre en la misma request.
func NewJobHandler(queue OverdueEnqueuer, inline OverdueMarker) *JobHandler {
	return &JobHandler{queue: queue, inline: inline}
}

// MarkOverdue godoc
// @Summary      Marcar cuentas vencidas
// @Description  Encola receivables:mark_overdue; sin Redis lo ejecuta en línea y devuelve la cantidad marcada.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Success      202  {object}  dto.MessageResponse
// @Router       /api/admin/jobs/mark-overdue [post]
func (h *JobHandler) MarkOverdue(c *fiber.Ctx) error {
	if h.queue != nil {
		id, err := h.queue.EnqueueMarkOverdue(c.UserContext(), GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return ok(c, fiber.StatusAccepted, "barrido encolado", fiber.Map{"task_id": id})
	}
	n, err := h.inline.MarkOverdue(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "barrido ejecutado", fiber.Map{"marked": n})
}

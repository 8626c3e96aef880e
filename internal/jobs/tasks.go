// Package jobs contiene las tareas en segundo plano (asynq) y el worker que las procesa.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/observability"
)

const (
	// QueueDefault cola única del worker.
	QueueDefault = "default"
	// TaskMarkOverdue marca como vencidas las cuentas por cobrar con cuotas atrasadas.
	TaskMarkOverdue = "receivables:mark_overdue"
)

// MarkOverduePayload origen de la ejecución (cron o admin), solo para logs.
type MarkOverduePayload struct {
	Trigger     string    `json:"trigger"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewMarkOverdueTask construye la tarea con reintentos acotados.
func NewMarkOverdueTask(payload MarkOverduePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMarkOverdue, data, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)), nil
}

// OverdueMarker puerto hacia el caso de uso de cuentas por cobrar.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

// MarkOverdueHandler procesa TaskMarkOverdue.
type MarkOverdueHandler struct {
	marker  OverdueMarker
	metrics *observability.Metrics
	log     zerolog.Logger
}

// NewMarkOverdueHandler construye el handler. metrics puede ser nil.
func NewMarkOverdueHandler(marker OverdueMarker, metrics *observability.Metrics, log zerolog.Logger) *MarkOverdueHandler {
	return &MarkOverdueHandler{marker: marker, metrics: metrics, log: log}
}

// ProcessTask implementa asynq.Handler.
func (h *MarkOverdueHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload MarkOverduePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("%s: payload inválido: %v: %w", TaskMarkOverdue, err, asynq.SkipRetry)
		}
	}
	tracker := h.metrics.TrackJob(TaskMarkOverdue)
	n, err := h.marker.MarkOverdue(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("trigger", payload.Trigger).Msg("jobs: barrido de vencidos falló")
		return tracker.End(fmt.Errorf("%s: %w", TaskMarkOverdue, err))
	}
	h.log.Info().Int("marked", n).Str("trigger", payload.Trigger).Str("requested_by", payload.RequestedBy).
		Msg("jobs: barrido de vencidos completado")
	return tracker.End(nil)
}

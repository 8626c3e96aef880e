package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
)

// RequestLogger deja un logger con request_id en el contexto de la request y escribe
// una línea de access log al terminar. Va después de requestid.New().
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid, _ := c.Locals("requestid").(string)
		log := base.With().Str("request_id", rid).Logger()
		c.SetUserContext(log.WithContext(c.UserContext()))

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return nil
	}
}

// HTTPObserver recibe una observación por request (implementado por observability.Metrics).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Metrics registra contador y latencia por patrón de ruta.
func Metrics(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}
		obs.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}

// IdempotencyStore persistencia de respuestas por Idempotency-Key (Redis en producción).
type IdempotencyStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, response []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

const idempotencyHeader = "Idempotency-Key"

// Idempotency repite la respuesta guardada cuando llega de nuevo la misma Idempotency-Key.
// La clave se aísla por empresa y usuario. Requests sin header pasan sin cambios.
// Se guardan las respuestas < 500 junto con el SHA-256 del body; reusar la clave con otro
// body responde 422. Un 5xx libera la clave para permitir el reintento.
func Idempotency(store IdempotencyStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(idempotencyHeader)
		if header == "" || store == nil {
			return c.Next()
		}
		if len(header) > 255 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}
		ctx := c.UserContext()
		log := zerolog.Ctx(ctx)
		key := GetCompanyID(c) + ":" + GetUserID(c) + ":" + header
		sum := sha256.Sum256(c.Body())
		hash := hex.EncodeToString(sum[:])

		raw, found, err := store.Load(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("idempotency: no se pudo leer la clave")
			return unavailable(c)
		}
		if found {
			var prev storedResponse
			if err := json.Unmarshal(raw, &prev); err == nil {
				if prev.RequestHash != hash {
					return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
						Code: "IDEMPOTENCY_KEY_REUSED", Message: "la Idempotency-Key ya se usó con otro body",
					})
				}
				c.Set("Idempotent-Replayed", "true")
				if prev.ContentType != "" {
					c.Set(fiber.HeaderContentType, prev.ContentType)
				}
				return c.Status(prev.Status).Send(prev.Body)
			}
		}

		reserved, err := store.Reserve(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("idempotency: no se pudo reservar la clave")
			return unavailable(c)
		}
		if !reserved {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "IDEMPOTENCY_IN_PROGRESS", Message: "otra request con la misma Idempotency-Key está en curso", Retryable: true,
			})
		}

		nextErr := c.Next()
		status := c.Response().StatusCode()
		if nextErr != nil || status >= fiber.StatusInternalServerError {
			if err := store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Msg("idempotency: no se pudo liberar la clave")
			}
			return nextErr
		}
		rec, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
			RequestHash: hash,
		})
		if err == nil {
			err = store.Save(ctx, key, rec, ttl)
		}
		if err != nil {
			log.Warn().Err(err).Msg("idempotency: no se pudo guardar la respuesta")
		}
		return nil
	}
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la Idempotency-Key, reintente", Retryable: true,
	})
}

package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// lockTTL tiempo máximo que una request puede retener la clave mientras se procesa.
const lockTTL = 30 * time.Second

// IdempotencyStore guarda la respuesta de requests con Idempotency-Key.
// Cada clave usa dos entradas: "<key>:lock" mientras la request corre y "<key>" con la respuesta final.
type IdempotencyStore struct {
	client goredis.Cmdable
	prefix string
}

// NewIdempotencyStore construye el store; las claves quedan bajo prefix + "idem:".
func NewIdempotencyStore(client goredis.Cmdable, prefix string) *IdempotencyStore {
	return &IdempotencyStore{client: client, prefix: prefix + "idem:"}
}

// Load respuesta guardada para key.
func (s *IdempotencyStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Reserve toma la clave para procesar la request; false si otra request la tiene.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key+":lock", "1", lockTTL).Result()
}

// Save guarda la respuesta final y libera el lock en un solo pipeline.
func (s *IdempotencyStore) Save(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.prefix+key, response, ttl)
		p.Del(ctx, s.prefix+key+":lock")
		return nil
	})
	return err
}

// Release libera el lock sin guardar respuesta (la request falló y puede reintentarse).
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key+":lock").Err()
}

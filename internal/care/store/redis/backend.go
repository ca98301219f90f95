package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"carelock/internal/care/store"
	"carelock/pkg/platform/sentinel"
)

const keyPrefix = "carelock:collection:"

// Backend keeps each collection under its own key. Commit applies all writes
// in one MULTI/EXEC block.
type Backend struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Backend {
	return &Backend{client: client}
}

func key(c store.Collection) string {
	return keyPrefix + string(c)
}

func (b *Backend) Load(ctx context.Context, c store.Collection) ([]byte, error) {
	payload, err := b.client.Get(ctx, key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w: %w", c, sentinel.ErrUnavailable, err)
	}
	return payload, nil
}

func (b *Backend) Commit(ctx context.Context, writes []store.Write) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			pipe.Set(ctx, key(w.Collection), w.Payload, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit collections: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

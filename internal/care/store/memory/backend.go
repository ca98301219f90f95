package memory

import (
	"context"
	"sync"

	"carelock/internal/care/store"
)

// Backend keeps collections in process memory.
type Backend struct {
	mu          sync.RWMutex
	collections map[store.Collection][]byte
}

func New() *Backend {
	return &Backend{collections: make(map[store.Collection][]byte)}
}

func (b *Backend) Load(_ context.Context, c store.Collection) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	payload, ok := b.collections[c]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (b *Backend) Commit(_ context.Context, writes []store.Write) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range writes {
		b.collections[w.Collection] = append([]byte(nil), w.Payload...)
	}
	return nil
}

package memory_test

import (
	"testing"

	"carelock/internal/care/store"
	"carelock/internal/care/store/memory"
	"carelock/internal/care/store/storetest"
)

func TestBackend(t *testing.T) {
	storetest.RunBackend(t, func(*testing.T) store.Backend {
		return memory.New()
	})
}

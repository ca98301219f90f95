//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"carelock/internal/care/store"
	"carelock/internal/care/store/redis"
	"carelock/internal/care/store/storetest"
	"carelock/pkg/testutil/containers"
)

func TestBackend(t *testing.T) {
	rc := containers.NewRedisContainer(t)

	storetest.RunBackend(t, func(t *testing.T) store.Backend {
		require.NoError(t, rc.FlushAll(context.Background()))
		return redis.New(rc.Client)
	})
}

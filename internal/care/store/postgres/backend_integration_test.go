//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"carelock/internal/care/store"
	"carelock/internal/care/store/postgres"
	"carelock/internal/care/store/storetest"
	"carelock/pkg/testutil/containers"
)

func TestBackend(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, postgres.Migrate(pg.DB))

	storetest.RunBackend(t, func(t *testing.T) store.Backend {
		_, err := pg.DB.ExecContext(context.Background(), `TRUNCATE record_collections`)
		require.NoError(t, err)
		return postgres.New(pg.DB)
	})
}

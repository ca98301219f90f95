package fallback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "carelock/pkg/platform/audit"
	"carelock/pkg/platform/audit/store/memory"
	"carelock/pkg/platform/circuit"
)

var errBrokerDown = errors.New("broker down")

type flakySink struct {
	fail     bool
	appended int
}

func (f *flakySink) Append(context.Context, audit.Event) error {
	if f.fail {
		return errBrokerDown
	}
	f.appended++
	return nil
}

func TestStore_DivertsWhileOpen(t *testing.T) {
	ctx := context.Background()
	primary := &flakySink{fail: true}
	secondary := memory.NewInMemoryStore()
	breaker := circuit.New("audit", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	s := New(primary, secondary, breaker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event := audit.Event{Action: string(audit.EventHistoryViewed)}

	require.ErrorIs(t, s.Append(ctx, event), errBrokerDown)
	require.NoError(t, s.Append(ctx, event))
	assert.True(t, breaker.IsOpen())

	recent, err := secondary.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	primary.fail = false
	require.NoError(t, s.Append(ctx, event))
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 1, primary.appended)
}

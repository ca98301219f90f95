// Package fallback keeps audit events flowing when the primary sink is down.
package fallback

import (
	"context"
	"log/slog"

	audit "carelock/pkg/platform/audit"
	"carelock/pkg/platform/circuit"
)

// Store appends to primary and diverts to secondary once the breaker opens.
// Below the failure threshold primary errors are returned to the caller.
type Store struct {
	primary   audit.Store
	secondary audit.Store
	breaker   *circuit.Breaker
	logger    *slog.Logger
}

func New(primary, secondary audit.Store, breaker *circuit.Breaker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, secondary: secondary, breaker: breaker, logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if err := s.primary.Append(ctx, event); err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "audit sink circuit opened, diverting to fallback",
				"breaker", s.breaker.Name(),
				"error", err,
			)
		}
		if useFallback {
			return s.secondary.Append(ctx, event)
		}
		return err
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "audit sink circuit closed", "breaker", s.breaker.Name())
	}
	return nil
}

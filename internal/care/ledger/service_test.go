package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"carelock/internal/care/models"
	"carelock/internal/care/store"
	"carelock/internal/care/store/memory"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/audit/publisher"
	auditmemory "carelock/pkg/platform/audit/store/memory"
	"carelock/pkg/platform/sentinel"
	"carelock/pkg/requestcontext"
)

type LedgerSuite struct {
	suite.Suite
	store  *store.Store
	events *auditmemory.InMemoryStore
	svc    *Service
	ctx    context.Context
	now    time.Time
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.store = store.New(memory.New())
	_, err := s.store.Seed(context.Background(), store.DefaultSeed(), true)
	s.Require().NoError(err)

	s.events = auditmemory.NewInMemoryStore()
	s.svc = New(s.store, WithAuditPublisher(publisher.NewPublisher(s.events)))
	s.now = time.Date(2025, 5, 4, 10, 30, 0, 123456789, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *LedgerSuite) TestStart() {
	s.Run("opens an active relationship and locks the clinician", func() {
		rel, err := s.svc.Start(s.ctx, store.SeedPatientMaria, store.SeedClinicianRuiz)
		s.Require().NoError(err)
		s.Equal(models.RelationshipStatusActive, rel.Status)
		s.False(rel.ObservationsAdded)
		s.Equal(s.now.Truncate(time.Millisecond), rel.StartDate)

		locked, err := s.svc.IsLocked(s.ctx, store.SeedClinicianRuiz)
		s.Require().NoError(err)
		s.True(locked)

		events, err := s.events.ListByPatient(s.ctx, store.SeedPatientMaria)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventCareRelationshipStarted), events[0].Action)
		s.Equal(audit.CategoryCompliance, events[0].Category)
		s.Equal(rel.ID, events[0].RelationshipID)
	})

	s.Run("rejects a second active relationship for the same clinician", func() {
		_, err := s.svc.Start(s.ctx, store.SeedPatientJoao, store.SeedClinicianRuiz)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflictingActiveRelationship))

		rels, err := s.store.CareRelationships(s.ctx)
		s.Require().NoError(err)
		s.Len(rels, 1)
	})

	s.Run("other clinicians are not affected by the lock", func() {
		_, err := s.svc.Start(s.ctx, store.SeedPatientMaria, store.SeedClinicianMendez)
		s.Require().NoError(err)
	})
}

func (s *LedgerSuite) TestStartDatesFollowCreationOrder() {
	first, err := s.svc.Start(s.ctx, store.SeedPatientMaria, store.SeedClinicianRuiz)
	s.Require().NoError(err)

	earlier := requestcontext.WithTime(context.Background(), s.now.Add(-time.Minute))
	second, err := s.svc.Start(earlier, store.SeedPatientJoao, store.SeedClinicianMendez)
	s.Require().NoError(err)
	s.False(second.StartDate.Before(first.StartDate))
	s.Equal(first.StartDate, second.StartDate)
}

func (s *LedgerSuite) TestStartUnknownEntities() {
	_, err := s.svc.Start(s.ctx, id.PatientID(uuid.New()), store.SeedClinicianRuiz)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.Start(s.ctx, store.SeedPatientMaria, id.ClinicianID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.Start(s.ctx, id.PatientID{}, store.SeedClinicianRuiz)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	rels, err := s.store.CareRelationships(s.ctx)
	s.Require().NoError(err)
	s.Empty(rels)
}

func (s *LedgerSuite) TestActive() {
	s.Run("nil when the clinician is free", func() {
		active, err := s.svc.Active(s.ctx, store.SeedClinicianRuiz)
		s.Require().NoError(err)
		s.Nil(active)
	})

	s.Run("returns the active relationship", func() {
		rel, err := s.svc.Start(s.ctx, store.SeedPatientJoao, store.SeedClinicianRuiz)
		s.Require().NoError(err)

		active, err := s.svc.Active(s.ctx, store.SeedClinicianRuiz)
		s.Require().NoError(err)
		s.Require().NotNil(active)
		s.Equal(rel.ID, active.ID)
	})

	s.Run("a completed relationship releases the lock", func() {
		s.completeAll()
		active, err := s.svc.Active(s.ctx, store.SeedClinicianRuiz)
		s.Require().NoError(err)
		s.Nil(active)
	})

	s.Run("unknown clinician is not found", func() {
		_, err := s.svc.Active(s.ctx, id.ClinicianID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LedgerSuite) TestListings() {
	first, err := s.svc.Start(s.ctx, store.SeedPatientMaria, store.SeedClinicianRuiz)
	s.Require().NoError(err)
	second, err := s.svc.Start(s.ctx, store.SeedPatientMaria, store.SeedClinicianMendez)
	s.Require().NoError(err)

	s.Run("by patient keeps creation order", func() {
		rels, err := s.svc.ByPatient(s.ctx, store.SeedPatientMaria)
		s.Require().NoError(err)
		s.Require().Len(rels, 2)
		s.Equal(first.ID, rels[0].ID)
		s.Equal(second.ID, rels[1].ID)
	})

	s.Run("by clinician", func() {
		rels, err := s.svc.ByClinician(s.ctx, store.SeedClinicianMendez)
		s.Require().NoError(err)
		s.Require().Len(rels, 1)
		s.Equal(second.ID, rels[0].ID)
	})

	s.Run("empty listing is not nil", func() {
		rels, err := s.svc.ByPatient(s.ctx, store.SeedPatientJoao)
		s.Require().NoError(err)
		s.NotNil(rels)
		s.Empty(rels)
	})

	s.Run("get", func() {
		rel, err := s.svc.Get(s.ctx, first.ID)
		s.Require().NoError(err)
		s.Equal(store.SeedClinicianRuiz, rel.ClinicianID)

		_, err = s.svc.Get(s.ctx, id.CareRelationshipID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LedgerSuite) completeAll() {
	s.T().Helper()
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		rels, err := s.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		for i := range rels {
			if rels[i].CanComplete() == nil {
				rels[i].ApplyCompletion(s.now)
			}
		}
		return s.store.SaveCareRelationships(ctx, rels)
	})
	s.Require().NoError(err)
}

// downBackend loads from memory but cannot commit.
type downBackend struct {
	*memory.Backend
}

func (downBackend) Commit(context.Context, []store.Write) error {
	return fmt.Errorf("upsert collection: %w: connection refused", sentinel.ErrUnavailable)
}

func TestStart_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	backend := downBackend{Backend: memory.New()}
	_, err := store.New(backend.Backend).Seed(ctx, store.DefaultSeed(), true)
	require.NoError(t, err)

	svc := New(store.New(backend))
	_, err = svc.Start(ctx, store.SeedPatientMaria, store.SeedClinicianRuiz)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

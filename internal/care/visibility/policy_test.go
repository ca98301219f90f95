package visibility

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"carelock/internal/care/history"
	"carelock/internal/care/intake"
	"carelock/internal/care/ledger"
	"carelock/internal/care/models"
	"carelock/internal/care/store"
	"carelock/internal/care/store/memory"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/audit/publisher"
	auditmemory "carelock/pkg/platform/audit/store/memory"
	"carelock/pkg/requestcontext"
)

var (
	patientP   = id.PatientID(uuid.MustParse("11111111-1111-4111-8111-111111111111"))
	patientQ   = id.PatientID(uuid.MustParse("22222222-2222-4222-8222-222222222222"))
	clinicianA = id.ClinicianID(uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"))
	clinicianB = id.ClinicianID(uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"))

	t1 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 7, 21, 16, 45, 30, 250000000, time.UTC)
)

func scenarioSeed() store.SeedData {
	return store.SeedData{
		Patients: []models.Patient{
			{
				ID:   patientP,
				Name: "Ana Costa",
				MedicalHistory: history.ParseLines([]string{
					"2023-01-15: Initial assessment — mild lower back discomfort reported",
					"2023-04-22: Follow-up — improved ROM after 8 sessions",
				}),
			},
			{ID: patientQ, Name: "Bruno Lima", MedicalHistory: []models.HistoryEntry{}},
		},
		Clinicians: []models.Clinician{
			{ID: clinicianA, Name: "Dr. Alice Ferreira", Specialty: "Physiotherapy"},
			{ID: clinicianB, Name: "Dr. Bruno Alves", Specialty: "Sports Rehabilitation"},
		},
	}
}

type PolicySuite struct {
	suite.Suite
	store  *store.Store
	events *auditmemory.InMemoryStore
	ledger *ledger.Service
	intake *intake.Service
	policy *Policy
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) SetupTest() {
	s.store = store.New(memory.New())
	_, err := s.store.Seed(context.Background(), scenarioSeed(), true)
	s.Require().NoError(err)

	s.events = auditmemory.NewInMemoryStore()
	s.ledger = ledger.New(s.store)
	s.intake = intake.New(s.store)
	s.policy = New(s.store, WithAuditPublisher(publisher.NewPublisher(s.events)))
}

func at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *PolicySuite) start(patientID id.PatientID, clinicianID id.ClinicianID, when time.Time) *models.CareRelationship {
	rel, err := s.ledger.Start(at(when), patientID, clinicianID)
	s.Require().NoError(err)
	return rel
}

func (s *PolicySuite) complete(rel *models.CareRelationship, when time.Time) {
	_, err := s.intake.Record(at(when), models.ObservationInput{
		CareRelationshipID: rel.ID,
		ClinicianID:        rel.ClinicianID,
		PatientID:          rel.PatientID,
		ObservationDomain:  "Movement & Motor Control",
		AnatomicalContext:  "Knee",
		TriggerCondition:   "Weight-bearing",
		MeasurementType:    "Range of Motion (ROM)",
		ConfidenceLevel:    "High",
	})
	s.Require().NoError(err)
}

func (s *PolicySuite) TestScenarios() {
	ctx := context.Background()
	relA := s.start(patientP, clinicianA, t1.Add(-time.Hour))

	s.Run("A: nothing is visible before contributing", func() {
		view, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
		s.Require().NoError(err)
		s.NotNil(view.Entries)
		s.Empty(view.Lines())
	})

	s.complete(relA, t1)

	s.Run("A: contribution unlocks history up to itself", func() {
		view, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
		s.Require().NoError(err)
		s.Equal([]string{
			"2023-01-15: Initial assessment — mild lower back discomfort reported",
			"2023-04-22: Follow-up — improved ROM after 8 sessions",
			"2024-03-10T09:00:00.000Z: [Dr. Alice Ferreira] Movement & Motor Control — Knee, Weight-bearing (High)",
		}, view.Lines())
	})

	relB := s.start(patientP, clinicianB, t2.Add(-time.Hour))
	s.complete(relB, t2)

	s.Run("B: later contributions never widen a past view", func() {
		view, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
		s.Require().NoError(err)
		s.Len(view.Entries, 3)
		for _, e := range view.Entries {
			s.False(e.RecordedAt.After(t1))
		}
	})

	s.Run("B: the other clinician's scoped view hides A's name", func() {
		view, err := s.policy.VisibleHistory(ctx, patientP, clinicianB, relB.ID)
		s.Require().NoError(err)
		lines := view.Lines()
		s.Require().Len(lines, 4)
		s.Equal("2024-03-10T09:00:00.000Z: Movement & Motor Control — Knee, Weight-bearing (High)", lines[2])
		s.Equal("2024-07-21T16:45:30.250Z: [Dr. Bruno Alves] Movement & Motor Control — Knee, Weight-bearing (High)", lines[3])
	})

	s.Run("C: audit view shows everything with B's name stripped", func() {
		view, err := s.policy.AuditHistory(ctx, patientP, clinicianA)
		s.Require().NoError(err)
		s.Equal([]string{
			"2023-01-15: Initial assessment — mild lower back discomfort reported",
			"2023-04-22: Follow-up — improved ROM after 8 sessions",
			"2024-03-10T09:00:00.000Z: [Dr. Alice Ferreira] Movement & Motor Control — Knee, Weight-bearing (High)",
			"2024-07-21T16:45:30.250Z: Movement & Motor Control — Knee, Weight-bearing (High)",
		}, view.Lines())
	})

	s.Run("history views are audited", func() {
		events, err := s.events.ListByPatient(ctx, patientP)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		for _, e := range events {
			s.Equal(string(audit.EventHistoryViewed), e.Action)
			s.Equal(audit.CategoryAccess, e.Category)
		}
	})
}

func (s *PolicySuite) TestScopedViewDeniesMismatches() {
	ctx := context.Background()
	relA := s.start(patientP, clinicianA, t1.Add(-time.Hour))
	s.complete(relA, t1)

	tests := []struct {
		name           string
		patientID      id.PatientID
		clinicianID    id.ClinicianID
		relationshipID id.CareRelationshipID
	}{
		{"unknown relationship", patientP, clinicianA, id.CareRelationshipID(uuid.New())},
		{"relationship of another clinician", patientP, clinicianB, relA.ID},
		{"relationship with another patient", patientQ, clinicianA, relA.ID},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			view, err := s.policy.VisibleHistory(ctx, tt.patientID, tt.clinicianID, tt.relationshipID)
			s.Require().NoError(err)
			s.Empty(view.Entries)
		})
	}

	s.Run("unknown patient or clinician is not found", func() {
		_, err := s.policy.VisibleHistory(ctx, id.PatientID(uuid.New()), clinicianA, relA.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.policy.AuditHistory(ctx, patientP, id.ClinicianID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PolicySuite) TestUndatedEntriesFailClosed() {
	ctx := context.Background()
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		patients, err := s.store.Patients(ctx)
		if err != nil {
			return err
		}
		patients[0].MedicalHistory = append(patients[0].MedicalHistory, history.ParseLine("Family history of osteoarthritis"))
		return s.store.SavePatients(ctx, patients)
	})
	s.Require().NoError(err)

	relA := s.start(patientP, clinicianA, t1.Add(-time.Hour))
	s.complete(relA, t1)

	scoped, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
	s.Require().NoError(err)
	s.NotContains(scoped.Lines(), "Family history of osteoarthritis")

	audited, err := s.policy.AuditHistory(ctx, patientP, clinicianA)
	s.Require().NoError(err)
	s.Contains(audited.Lines(), "Family history of osteoarthritis")
}

func (s *PolicySuite) TestDecide() {
	ctx := context.Background()

	s.Run("no relationship", func() {
		d, err := s.policy.Decide(ctx, clinicianA, patientP)
		s.Require().NoError(err)
		s.Equal(AccessNone, d.Access)
		s.NotEmpty(d.Reason)
	})

	relA := s.start(patientP, clinicianA, t1.Add(-time.Hour))

	s.Run("audit while locked to the patient", func() {
		d, err := s.policy.Decide(ctx, clinicianA, patientP)
		s.Require().NoError(err)
		s.Equal(AccessAudit, d.Access)
		s.Require().NotNil(d.ActiveRelationshipID)
		s.Equal(relA.ID, *d.ActiveRelationshipID)
	})

	s.Run("locked away from other patients", func() {
		d, err := s.policy.Decide(ctx, clinicianA, patientQ)
		s.Require().NoError(err)
		s.Equal(AccessLocked, d.Access)
	})

	s.complete(relA, t1)
	relA2 := s.start(patientP, clinicianA, t2.Add(-time.Hour))
	s.complete(relA2, t2)

	s.Run("scoped after contributing, newest first", func() {
		d, err := s.policy.Decide(ctx, clinicianA, patientP)
		s.Require().NoError(err)
		s.Equal(AccessScoped, d.Access)
		s.Equal([]id.CareRelationshipID{relA2.ID, relA.ID}, d.ScopedRelationshipIDs)
	})
}

func (s *PolicySuite) TestCaseload() {
	ctx := context.Background()
	relP := s.start(patientP, clinicianA, t1.Add(-time.Hour))
	s.complete(relP, t1)
	relQ := s.start(patientQ, clinicianA, t2.Add(-time.Hour))
	s.complete(relQ, t2)

	s.Run("groups completed sessions by patient", func() {
		c, err := s.policy.Caseload(ctx, clinicianA, "")
		s.Require().NoError(err)
		s.False(c.Locked)
		s.Require().Len(c.Patients, 2)
		s.Equal(patientP, c.Patients[0].PatientID)
		s.Len(c.Patients[0].Sessions, 1)
		s.Len(c.Patients[0].Sessions[0].Observations, 1)
		s.Len(c.Patients[0].History, 3)
	})

	s.Run("filters by patient name, case-insensitive", func() {
		c, err := s.policy.Caseload(ctx, clinicianA, "  bruno ")
		s.Require().NoError(err)
		s.Require().Len(c.Patients, 1)
		s.Equal(patientQ, c.Patients[0].PatientID)
	})

	s.Run("locked clinicians see only the active relationship", func() {
		active := s.start(patientP, clinicianA, t2.Add(time.Hour))
		c, err := s.policy.Caseload(ctx, clinicianA, "")
		s.Require().NoError(err)
		s.True(c.Locked)
		s.Require().NotNil(c.Active)
		s.Equal(active.ID, c.Active.ID)
		s.Empty(c.Patients)
	})
}

// Property checks over a sequence of sessions by alternating clinicians.
func TestViewProperties(t *testing.T) {
	st := store.New(memory.New())
	_, err := st.Seed(context.Background(), scenarioSeed(), true)
	require.NoError(t, err)
	led := ledger.New(st)
	in := intake.New(st)
	pol := New(st)

	clinicians := []id.ClinicianID{clinicianA, clinicianB}
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	var completed []*models.CareRelationship

	for i := 0; i < 6; i++ {
		clinicianID := clinicians[i%2]
		startAt := base.Add(time.Duration(i) * 24 * time.Hour)
		rel, err := led.Start(at(startAt), patientP, clinicianID)
		require.NoError(t, err)

		before, err := pol.VisibleHistory(context.Background(), patientP, clinicianID, rel.ID)
		require.NoError(t, err)
		assert.Empty(t, before.Entries, "session %d visible before contribution", i)

		_, err = in.Record(at(startAt.Add(90*time.Minute)), models.ObservationInput{
			CareRelationshipID: rel.ID,
			ClinicianID:        clinicianID,
			PatientID:          patientP,
			ObservationDomain:  "Functional Capacity",
			AnatomicalContext:  "Shoulder Complex",
			TriggerCondition:   "Repetitive motion",
			MeasurementType:    "Functional Index Score",
			ConfidenceLevel:    "Low",
		})
		require.NoError(t, err)
		completed = append(completed, rel)
	}

	for i, rel := range completed {
		cutoff := base.Add(time.Duration(i)*24*time.Hour + 90*time.Minute)
		scoped, err := pol.VisibleHistory(context.Background(), patientP, rel.ClinicianID, rel.ID)
		require.NoError(t, err)
		audited, err := pol.AuditHistory(context.Background(), patientP, rel.ClinicianID)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, audited.Len(), scoped.Len())
		assert.Len(t, scoped.Entries, 2+i+1, "session %d sees legacy entries plus contributions up to its own", i)
		for _, e := range scoped.Entries {
			assert.False(t, e.RecordedAt.After(cutoff))
		}

		viewer := history.Viewer{ClinicianID: rel.ClinicianID}
		for _, e := range audited.Entries {
			if e.Kind != models.EntryKindObservation {
				continue
			}
			if e.Author != nil {
				assert.True(t, viewer.Owns(e), "foreign author leaked: %s", history.Render(e))
			}
			assert.True(t, strings.HasSuffix(history.Render(e), "Functional Capacity — Shoulder Complex, Repetitive motion (Low)"))
		}
	}
}

func (s *PolicySuite) TestScopedViewStaysFrozenWhenEarlierRequestCommitsLate() {
	ctx := context.Background()
	relA := s.start(patientP, clinicianA, t1.Add(-time.Hour))
	relB := s.start(patientP, clinicianB, t1.Add(-45*time.Minute))
	s.complete(relA, t1)

	before, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
	s.Require().NoError(err)
	s.Require().Len(before.Entries, 3)

	// B's request arrived before A's but commits after it.
	s.complete(relB, t1.Add(-30*time.Second))

	after, err := s.policy.VisibleHistory(ctx, patientP, clinicianA, relA.ID)
	s.Require().NoError(err)
	s.Equal(before.Lines(), after.Lines())

	scopedB, err := s.policy.VisibleHistory(ctx, patientP, clinicianB, relB.ID)
	s.Require().NoError(err)
	lines := scopedB.Lines()
	s.Require().Len(lines, 4)
	s.Equal("2024-03-10T09:00:00.001Z: [Dr. Bruno Alves] Movement & Motor Control — Knee, Weight-bearing (High)", lines[3])

	audited, err := s.policy.AuditHistory(ctx, patientP, clinicianA)
	s.Require().NoError(err)
	for i := 1; i < len(audited.Entries); i++ {
		s.True(audited.Entries[i].RecordedAt.After(audited.Entries[i-1].RecordedAt),
			"history out of order at %d", i)
	}
}

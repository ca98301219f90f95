// Package visibility decides what part of a patient's history a clinician
// may see.
//
// Two views exist. The scoped view belongs to a completed relationship and is
// frozen at the moment of that relationship's own contribution. The audit
// view is the whole current history, offered while the clinician is locked
// to the patient and about to contribute. Both strip authorship from entries
// the viewer did not write.
package visibility

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"carelock/internal/care/history"
	"carelock/internal/care/metrics"
	"carelock/internal/care/models"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/sentinel"
)

var tracer = otel.Tracer("carelock/internal/care/visibility")

const (
	viewScoped = "scoped"
	viewAudit  = "audit"
)

// Store is the read-only slice of the record store the policy needs.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Patients(ctx context.Context) ([]models.Patient, error)
	PatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	ClinicianByID(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error)
	CareRelationships(ctx context.Context) ([]models.CareRelationship, error)
	Observations(ctx context.Context) ([]models.Observation, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// History is an ordered, already redacted sequence of entries.
type History struct {
	Entries []models.HistoryEntry
}

// Lines renders the entries in their text form.
func (h History) Lines() []string {
	return history.RenderAll(h.Entries)
}

func (h History) Len() int {
	return len(h.Entries)
}

func emptyHistory() History {
	return History{Entries: []models.HistoryEntry{}}
}

type Policy struct {
	store          Store
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Policy)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Policy) {
		p.metrics = m
	}
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(p *Policy) {
		p.auditPublisher = pub
	}
}

func New(store Store, opts ...Option) *Policy {
	p := &Policy{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// VisibleHistory returns the scoped view of a completed relationship: the
// patient's entries dated at or before the relationship's contribution,
// redacted for the clinician.
//
// A relationship that is unknown, bound to another clinician or patient, or
// not yet contributed yields an empty history, not an error.
func (p *Policy) VisibleHistory(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID, relationshipID id.CareRelationshipID) (History, error) {
	ctx, span := tracer.Start(ctx, "visibility.VisibleHistory", trace.WithAttributes(
		attribute.String("relationship_id", relationshipID.String()),
	))
	defer span.End()

	var view History
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		patient, clinician, err := p.participants(ctx, patientID, clinicianID)
		if err != nil {
			return err
		}
		relationships, err := p.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		observations, err := p.store.Observations(ctx)
		if err != nil {
			return err
		}
		view = scopedView(patient, clinician, relationships, observations, relationshipID)
		return nil
	})
	if err != nil {
		return History{}, serviceError(err, "failed to load history")
	}

	p.recordView(ctx, viewScoped, patientID, clinicianID, relationshipID, view.Len())
	return view, nil
}

// AuditHistory returns the patient's entire current history, redacted for
// the clinician.
func (p *Policy) AuditHistory(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID) (History, error) {
	ctx, span := tracer.Start(ctx, "visibility.AuditHistory")
	defer span.End()

	var view History
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		patient, clinician, err := p.participants(ctx, patientID, clinicianID)
		if err != nil {
			return err
		}
		view = History{Entries: history.RedactAll(patient.MedicalHistory, history.ViewerFor(clinician))}
		return nil
	})
	if err != nil {
		return History{}, serviceError(err, "failed to load history")
	}

	p.recordView(ctx, viewAudit, patientID, clinicianID, id.CareRelationshipID{}, view.Len())
	return view, nil
}

func (p *Policy) participants(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID) (*models.Patient, *models.Clinician, error) {
	patient, err := p.store.PatientByID(ctx, patientID)
	if err != nil {
		return nil, nil, lookupError(err, "patient not found")
	}
	clinician, err := p.store.ClinicianByID(ctx, clinicianID)
	if err != nil {
		return nil, nil, lookupError(err, "clinician not found")
	}
	return patient, clinician, nil
}

func scopedView(patient *models.Patient, clinician *models.Clinician, relationships []models.CareRelationship, observations []models.Observation, relationshipID id.CareRelationshipID) History {
	var rel *models.CareRelationship
	for i := range relationships {
		r := &relationships[i]
		if r.ID == relationshipID && r.PatientID == patient.ID && r.ClinicianID == clinician.ID {
			rel = r
			break
		}
	}
	if rel == nil || !rel.HasContributed() {
		return emptyHistory()
	}

	cutoff, ok := contributionCutoff(observations, rel.ID)
	if !ok {
		return emptyHistory()
	}
	entries := history.UpTo(patient.MedicalHistory, cutoff)
	return History{Entries: history.RedactAll(entries, history.ViewerFor(clinician))}
}

// contributionCutoff is the latest createdAt among the relationship's
// observations.
func contributionCutoff(observations []models.Observation, relationshipID id.CareRelationshipID) (time.Time, bool) {
	var cutoff time.Time
	found := false
	for _, o := range observations {
		if o.CareRelationshipID != relationshipID {
			continue
		}
		if !found || o.CreatedAt.After(cutoff) {
			cutoff = o.CreatedAt
			found = true
		}
	}
	return cutoff, found
}

// Access is the kind of history a clinician may currently see for a patient.
type Access string

const (
	// AccessAudit: locked to this patient, full redacted history.
	AccessAudit Access = "audit"
	// AccessLocked: locked to another patient, nothing.
	AccessLocked Access = "locked"
	// AccessScoped: completed sessions with this patient, each frozen at
	// its own contribution.
	AccessScoped Access = "scoped"
	// AccessNone: no relationship with this patient.
	AccessNone Access = "none"
)

// Decision answers what a clinician may see of a patient's history, and why.
type Decision struct {
	Access Access `json:"access"`
	Reason string `json:"reason"`
	// ActiveRelationshipID is set for AccessAudit and AccessLocked.
	ActiveRelationshipID *id.CareRelationshipID `json:"active_relationship_id,omitempty"`
	// ScopedRelationshipIDs are the completed relationships with the
	// patient, newest first. Set for AccessScoped.
	ScopedRelationshipIDs []id.CareRelationshipID `json:"scoped_relationship_ids,omitempty"`
}

func (p *Policy) Decide(ctx context.Context, clinicianID id.ClinicianID, patientID id.PatientID) (Decision, error) {
	ctx, span := tracer.Start(ctx, "visibility.Decide")
	defer span.End()

	var decision Decision
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, _, err := p.participants(ctx, patientID, clinicianID); err != nil {
			return err
		}
		relationships, err := p.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		decision = decide(relationships, clinicianID, patientID)
		return nil
	})
	if err != nil {
		return Decision{}, serviceError(err, "failed to decide access")
	}

	p.metrics.IncrementAccessDecision(string(decision.Access))
	p.emitAudit(ctx, audit.Event{
		Action:      string(audit.EventAccessDecided),
		ClinicianID: clinicianID,
		PatientID:   patientID,
		Detail:      string(decision.Access),
	})
	return decision, nil
}

func decide(relationships []models.CareRelationship, clinicianID id.ClinicianID, patientID id.PatientID) Decision {
	var scoped []models.CareRelationship
	for i := range relationships {
		r := relationships[i]
		if r.ClinicianID != clinicianID {
			continue
		}
		if r.IsActive() {
			activeID := r.ID
			if r.PatientID == patientID {
				return Decision{
					Access:               AccessAudit,
					Reason:               "active care relationship with this patient; full history is visible until the observation is submitted",
					ActiveRelationshipID: &activeID,
				}
			}
			return Decision{
				Access:               AccessLocked,
				Reason:               "locked to another patient until an observation is submitted for the active care relationship",
				ActiveRelationshipID: &activeID,
			}
		}
		if r.PatientID == patientID && r.HasContributed() {
			scoped = append(scoped, r)
		}
	}
	if len(scoped) == 0 {
		return Decision{Access: AccessNone, Reason: "no care relationship with this patient"}
	}

	sortNewestFirst(scoped)
	ids := make([]id.CareRelationshipID, 0, len(scoped))
	for _, r := range scoped {
		ids = append(ids, r.ID)
	}
	return Decision{
		Access:                AccessScoped,
		Reason:                "completed care relationships with this patient; each shows history up to its own observation",
		ScopedRelationshipIDs: ids,
	}
}

// sortNewestFirst orders by start date, latest first, keeping creation order
// reversed for equal dates.
func sortNewestFirst(relationships []models.CareRelationship) {
	for i, j := 0, len(relationships)-1; i < j; i, j = i+1, j-1 {
		relationships[i], relationships[j] = relationships[j], relationships[i]
	}
	sort.SliceStable(relationships, func(i, j int) bool {
		return relationships[i].StartDate.After(relationships[j].StartDate)
	})
}

// Session is one completed relationship on a clinician's caseload.
type Session struct {
	Relationship models.CareRelationship `json:"relationship"`
	Observations []models.Observation    `json:"observations"`
}

// CaseloadPatient groups a clinician's completed sessions with one patient.
type CaseloadPatient struct {
	PatientID   id.PatientID `json:"patient_id"`
	PatientName string       `json:"patient_name"`
	// Sessions are newest first.
	Sessions []Session `json:"sessions"`
	// History is the scoped view of the newest session.
	History []string `json:"history"`
}

// Caseload is the clinician's dashboard. A locked clinician sees only the
// active relationship.
type Caseload struct {
	Locked   bool                     `json:"locked"`
	Active   *models.CareRelationship `json:"active,omitempty"`
	Patients []CaseloadPatient        `json:"patients"`
}

// Caseload lists the clinician's completed sessions grouped by patient,
// keeping patients whose name contains query (case-insensitive).
func (p *Policy) Caseload(ctx context.Context, clinicianID id.ClinicianID, query string) (Caseload, error) {
	ctx, span := tracer.Start(ctx, "visibility.Caseload")
	defer span.End()

	caseload := Caseload{Patients: []CaseloadPatient{}}
	err := p.store.RunInTx(ctx, func(ctx context.Context) error {
		clinician, err := p.store.ClinicianByID(ctx, clinicianID)
		if err != nil {
			return lookupError(err, "clinician not found")
		}
		relationships, err := p.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		if active := activeFor(relationships, clinicianID); active != nil {
			caseload.Locked = true
			caseload.Active = active
			return nil
		}
		patients, err := p.store.Patients(ctx)
		if err != nil {
			return err
		}
		observations, err := p.store.Observations(ctx)
		if err != nil {
			return err
		}
		caseload.Patients = buildCaseload(clinician, patients, relationships, observations, query)
		return nil
	})
	if err != nil {
		return Caseload{}, serviceError(err, "failed to load caseload")
	}
	return caseload, nil
}

func buildCaseload(clinician *models.Clinician, patients []models.Patient, relationships []models.CareRelationship, observations []models.Observation, query string) []CaseloadPatient {
	byPatient := make(map[id.PatientID][]models.CareRelationship)
	var order []id.PatientID
	for _, r := range relationships {
		if r.ClinicianID != clinician.ID || r.IsActive() {
			continue
		}
		if _, seen := byPatient[r.PatientID]; !seen {
			order = append(order, r.PatientID)
		}
		byPatient[r.PatientID] = append(byPatient[r.PatientID], r)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]CaseloadPatient, 0, len(order))
	for _, patientID := range order {
		patient := findPatient(patients, patientID)
		if patient == nil {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(patient.Name), needle) {
			continue
		}

		rels := byPatient[patientID]
		sortNewestFirst(rels)
		sessions := make([]Session, 0, len(rels))
		for _, r := range rels {
			sessions = append(sessions, Session{Relationship: r, Observations: observationsFor(observations, r.ID)})
		}
		latest := scopedView(patient, clinician, relationships, observations, rels[0].ID)
		out = append(out, CaseloadPatient{
			PatientID:   patient.ID,
			PatientName: patient.Name,
			Sessions:    sessions,
			History:     latest.Lines(),
		})
	}
	return out
}

func observationsFor(observations []models.Observation, relationshipID id.CareRelationshipID) []models.Observation {
	out := make([]models.Observation, 0, 1)
	for _, o := range observations {
		if o.CareRelationshipID == relationshipID {
			out = append(out, o)
		}
	}
	return out
}

func activeFor(relationships []models.CareRelationship, clinicianID id.ClinicianID) *models.CareRelationship {
	for i := range relationships {
		if relationships[i].ClinicianID == clinicianID && relationships[i].IsActive() {
			return &relationships[i]
		}
	}
	return nil
}

func findPatient(patients []models.Patient, patientID id.PatientID) *models.Patient {
	for i := range patients {
		if patients[i].ID == patientID {
			return &patients[i]
		}
	}
	return nil
}

func (p *Policy) recordView(ctx context.Context, kind string, patientID id.PatientID, clinicianID id.ClinicianID, relationshipID id.CareRelationshipID, entries int) {
	p.metrics.ObserveHistoryView(kind, entries)
	p.emitAudit(ctx, audit.Event{
		Action:         string(audit.EventHistoryViewed),
		ClinicianID:    clinicianID,
		PatientID:      patientID,
		RelationshipID: relationshipID,
		Detail:         kind,
	})
	p.logger.DebugContext(ctx, "history viewed",
		"view", kind,
		"patient_id", patientID.String(),
		"clinician_id", clinicianID.String(),
		"entries", entries,
	)
}

func (p *Policy) emitAudit(ctx context.Context, event audit.Event) {
	if p.auditPublisher == nil {
		return
	}
	if err := p.auditPublisher.Emit(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func lookupError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return err
}

func serviceError(err error, msg string) error {
	if _, ok := dErrors.CodeOf(err); ok {
		return err
	}
	return storeError(err, msg)
}

// storeError translates backend failures; an unreachable store is reported as
// unavailable, anything else as internal.
func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "record store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

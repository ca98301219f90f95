// Package ledger owns the care-relationship lifecycle: starting a
// relationship, which locks the clinician to one patient, and answering who
// is locked to whom.
//
// Completion is driven by observation intake, not by the ledger.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"carelock/internal/care/metrics"
	"carelock/internal/care/models"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/sentinel"
	"carelock/pkg/requestcontext"
)

var tracer = otel.Tracer("carelock/internal/care/ledger")

// Store is the slice of the record store the ledger reads and writes.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	CareRelationships(ctx context.Context) ([]models.CareRelationship, error)
	SaveCareRelationships(ctx context.Context, relationships []models.CareRelationship) error
	PatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	ClinicianByID(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error)
	CareRelationshipByID(ctx context.Context, relationshipID id.CareRelationshipID) (*models.CareRelationship, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Start opens an active care relationship between the clinician and the
// patient. The clinician must not already be locked to a relationship.
func (s *Service) Start(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID) (*models.CareRelationship, error) {
	ctx, span := tracer.Start(ctx, "ledger.Start", trace.WithAttributes(
		attribute.String("patient_id", patientID.String()),
		attribute.String("clinician_id", clinicianID.String()),
	))
	defer span.End()

	if patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patient id required")
	}
	if clinicianID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "clinician id required")
	}

	var created *models.CareRelationship

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.PatientByID(ctx, patientID); err != nil {
			return lookupError(err, "patient not found")
		}
		if _, err := s.store.ClinicianByID(ctx, clinicianID); err != nil {
			return lookupError(err, "clinician not found")
		}

		relationships, err := s.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		if active := activeFor(relationships, clinicianID); active != nil {
			s.logger.WarnContext(ctx, "clinician already locked to a care relationship",
				"clinician_id", clinicianID.String(),
				"active_relationship_id", active.ID.String(),
				"active_patient_id", active.PatientID.String(),
			)
			return dErrors.New(dErrors.CodeConflictingActiveRelationship,
				"clinician already has an active care relationship")
		}

		now := startInstant(relationships, requestcontext.Now(ctx))
		rel, err := models.NewCareRelationship(id.CareRelationshipID(uuid.New()), patientID, clinicianID, now)
		if err != nil {
			return err
		}
		if err := s.store.SaveCareRelationships(ctx, append(relationships, *rel)); err != nil {
			return err
		}
		created = rel
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start failed")
		return nil, serviceError(err, "failed to start care relationship")
	}

	s.metrics.IncrementStarted()
	s.emitAudit(ctx, audit.EventCareRelationshipStarted, created)
	s.logger.InfoContext(ctx, "care relationship started",
		"relationship_id", created.ID.String(),
		"patient_id", patientID.String(),
		"clinician_id", clinicianID.String(),
	)
	return created, nil
}

// Active returns the clinician's active relationship, or nil when the
// clinician is not locked.
func (s *Service) Active(ctx context.Context, clinicianID id.ClinicianID) (*models.CareRelationship, error) {
	ctx, span := tracer.Start(ctx, "ledger.Active")
	defer span.End()

	if _, err := s.store.ClinicianByID(ctx, clinicianID); err != nil {
		return nil, serviceError(lookupError(err, "clinician not found"), "failed to load clinician")
	}
	relationships, err := s.store.CareRelationships(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load care relationships")
	}
	return activeFor(relationships, clinicianID), nil
}

// IsLocked reports whether the clinician has an active relationship.
func (s *Service) IsLocked(ctx context.Context, clinicianID id.ClinicianID) (bool, error) {
	active, err := s.Active(ctx, clinicianID)
	if err != nil {
		return false, err
	}
	return active != nil, nil
}

// ByPatient lists the patient's relationships in creation order.
func (s *Service) ByPatient(ctx context.Context, patientID id.PatientID) ([]models.CareRelationship, error) {
	if _, err := s.store.PatientByID(ctx, patientID); err != nil {
		return nil, serviceError(lookupError(err, "patient not found"), "failed to load patient")
	}
	return s.filter(ctx, func(r models.CareRelationship) bool { return r.PatientID == patientID })
}

// ByClinician lists the clinician's relationships in creation order.
func (s *Service) ByClinician(ctx context.Context, clinicianID id.ClinicianID) ([]models.CareRelationship, error) {
	if _, err := s.store.ClinicianByID(ctx, clinicianID); err != nil {
		return nil, serviceError(lookupError(err, "clinician not found"), "failed to load clinician")
	}
	return s.filter(ctx, func(r models.CareRelationship) bool { return r.ClinicianID == clinicianID })
}

func (s *Service) Get(ctx context.Context, relationshipID id.CareRelationshipID) (*models.CareRelationship, error) {
	rel, err := s.store.CareRelationshipByID(ctx, relationshipID)
	if err != nil {
		return nil, serviceError(lookupError(err, "care relationship not found"), "failed to load care relationship")
	}
	return rel, nil
}

func (s *Service) filter(ctx context.Context, keep func(models.CareRelationship) bool) ([]models.CareRelationship, error) {
	relationships, err := s.store.CareRelationships(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load care relationships")
	}
	out := make([]models.CareRelationship, 0)
	for _, r := range relationships {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, rel *models.CareRelationship) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:         string(event),
		ClinicianID:    rel.ClinicianID,
		PatientID:      rel.PatientID,
		RelationshipID: rel.ID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event),
			"error", err,
		)
	}
}

// startInstant stamps a new relationship no earlier than any existing one, so
// start dates follow creation order even when requests commit out of order.
func startInstant(relationships []models.CareRelationship, at time.Time) time.Time {
	at = at.UTC().Truncate(time.Millisecond)
	for _, r := range relationships {
		if r.StartDate.After(at) {
			at = r.StartDate
		}
	}
	return at
}

func activeFor(relationships []models.CareRelationship, clinicianID id.ClinicianID) *models.CareRelationship {
	for i := range relationships {
		if relationships[i].ClinicianID == clinicianID && relationships[i].IsActive() {
			return &relationships[i]
		}
	}
	return nil
}

// lookupError turns a store miss into a NotFound error and passes anything
// else through.
func lookupError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return err
}

// serviceError keeps coded errors and wraps the rest as internal.
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

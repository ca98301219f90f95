// Package intake records the structured observation that completes a care
// relationship and unlocks its clinician.
package intake

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

	"carelock/internal/care/history"
	"carelock/internal/care/metrics"
	"carelock/internal/care/models"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/sentinel"
	"carelock/pkg/requestcontext"
)

var tracer = otel.Tracer("carelock/internal/care/intake")

// Store is the slice of the record store intake reads and writes.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Patients(ctx context.Context) ([]models.Patient, error)
	SavePatients(ctx context.Context, patients []models.Patient) error
	ClinicianByID(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error)
	PatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	CareRelationships(ctx context.Context) ([]models.CareRelationship, error)
	SaveCareRelationships(ctx context.Context, relationships []models.CareRelationship) error
	Observations(ctx context.Context) ([]models.Observation, error)
	SaveObservations(ctx context.Context, observations []models.Observation) error
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

// Record stores the observation, appends its summary to the patient's
// history and completes the relationship. The three writes commit together
// or not at all.
func (s *Service) Record(ctx context.Context, in models.ObservationInput) (*models.Observation, error) {
	ctx, span := tracer.Start(ctx, "intake.Record", trace.WithAttributes(
		attribute.String("relationship_id", in.CareRelationshipID.String()),
		attribute.String("clinician_id", in.ClinicianID.String()),
	))
	defer span.End()
	start := time.Now()

	obs, err := s.record(ctx, in)
	if err != nil {
		code, ok := dErrors.CodeOf(err)
		if !ok {
			code = dErrors.CodeInternal
		}
		s.metrics.IncrementIntakeRejection(string(code))
		span.RecordError(err)
		span.SetStatus(codes.Error, "intake rejected")
		s.logger.WarnContext(ctx, "observation rejected",
			"relationship_id", in.CareRelationshipID.String(),
			"clinician_id", in.ClinicianID.String(),
			"code", string(code),
			"error", err,
		)
		return nil, err
	}

	s.metrics.IncrementCompleted()
	s.metrics.ObserveIntakeLatency(time.Since(start))
	s.emitAudit(ctx, audit.EventObservationRecorded, obs, obs.ObservationDomain)
	s.emitAudit(ctx, audit.EventCareRelationshipCompleted, obs, "")
	s.logger.InfoContext(ctx, "observation recorded",
		"observation_id", obs.ID.String(),
		"relationship_id", obs.CareRelationshipID.String(),
		"patient_id", obs.PatientID.String(),
		"clinician_id", obs.ClinicianID.String(),
	)
	return obs, nil
}

func (s *Service) record(ctx context.Context, in models.ObservationInput) (*models.Observation, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	obs := &models.Observation{
		ID:                 id.ObservationID(uuid.New()),
		CareRelationshipID: in.CareRelationshipID,
		ClinicianID:        in.ClinicianID,
		PatientID:          in.PatientID,
		ObservationDomain:  in.ObservationDomain,
		AnatomicalContext:  in.AnatomicalContext,
		TriggerCondition:   in.TriggerCondition,
		MeasurementType:    in.MeasurementType,
		ConfidenceLevel:    in.ConfidenceLevel,
		Notes:              in.Notes,
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		relationships, err := s.store.CareRelationships(ctx)
		if err != nil {
			return err
		}
		rel := findRelationship(relationships, in.CareRelationshipID)
		if rel == nil {
			return dErrors.New(dErrors.CodeNotFound, "care relationship not found")
		}
		if rel.ClinicianID != in.ClinicianID || rel.PatientID != in.PatientID {
			return dErrors.New(dErrors.CodeForbidden, "care relationship belongs to another clinician or patient")
		}
		if err := rel.CanComplete(); err != nil {
			return err
		}

		author, err := s.store.ClinicianByID(ctx, in.ClinicianID)
		if err != nil {
			return lookupError(err, "clinician not found")
		}
		patients, err := s.store.Patients(ctx)
		if err != nil {
			return err
		}
		patient := findPatient(patients, in.PatientID)
		if patient == nil {
			return dErrors.New(dErrors.CodeNotFound, "patient not found")
		}

		// Stamped under the store lock: a request that arrived earlier but
		// commits later still lands after every existing entry, so no frozen
		// scoped view can grow. createdAt and the history line share the
		// instant so the rendered line and the cutoff agree.
		now := history.NextInstant(patient.MedicalHistory, requestcontext.Now(ctx))
		if now.Before(rel.StartDate) {
			now = rel.StartDate
		}
		obs.CreatedAt = now

		observations, err := s.store.Observations(ctx)
		if err != nil {
			return err
		}
		if err := s.store.SaveObservations(ctx, append(observations, *obs)); err != nil {
			return err
		}

		patient.MedicalHistory = append(patient.MedicalHistory, models.NewObservationEntry(obs, author))
		if err := s.store.SavePatients(ctx, patients); err != nil {
			return err
		}

		rel.ApplyCompletion(obs.CreatedAt)
		return s.store.SaveCareRelationships(ctx, relationships)
	})
	if err != nil {
		return nil, serviceError(err, "failed to record observation")
	}
	return obs, nil
}

// ByPatient lists the patient's observations in creation order.
func (s *Service) ByPatient(ctx context.Context, patientID id.PatientID) ([]models.Observation, error) {
	if _, err := s.store.PatientByID(ctx, patientID); err != nil {
		return nil, serviceError(lookupError(err, "patient not found"), "failed to load patient")
	}
	return s.filter(ctx, func(o models.Observation) bool { return o.PatientID == patientID })
}

// ByClinician lists the observations the clinician authored.
func (s *Service) ByClinician(ctx context.Context, clinicianID id.ClinicianID) ([]models.Observation, error) {
	if _, err := s.store.ClinicianByID(ctx, clinicianID); err != nil {
		return nil, serviceError(lookupError(err, "clinician not found"), "failed to load clinician")
	}
	return s.filter(ctx, func(o models.Observation) bool { return o.ClinicianID == clinicianID })
}

// ByRelationship lists the observations bound to one relationship; at most
// one while intake enforces single completion.
func (s *Service) ByRelationship(ctx context.Context, relationshipID id.CareRelationshipID) ([]models.Observation, error) {
	return s.filter(ctx, func(o models.Observation) bool { return o.CareRelationshipID == relationshipID })
}

func (s *Service) filter(ctx context.Context, keep func(models.Observation) bool) ([]models.Observation, error) {
	observations, err := s.store.Observations(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load observations")
	}
	out := make([]models.Observation, 0)
	for _, o := range observations {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, obs *models.Observation, detail string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:         string(event),
		ClinicianID:    obs.ClinicianID,
		PatientID:      obs.PatientID,
		RelationshipID: obs.CareRelationshipID,
		Detail:         detail,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event),
			"error", err,
		)
	}
}

func findRelationship(relationships []models.CareRelationship, relationshipID id.CareRelationshipID) *models.CareRelationship {
	for i := range relationships {
		if relationships[i].ID == relationshipID {
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

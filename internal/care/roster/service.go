// Package roster lists the people known to the record store and resets it to
// the seed data set.
package roster

import (
	"context"
	"errors"
	"log/slog"

	"carelock/internal/care/metrics"
	"carelock/internal/care/models"
	"carelock/internal/care/store"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/audit"
	"carelock/pkg/platform/sentinel"
)

// Store is the slice of the record store the roster uses.
type Store interface {
	Users(ctx context.Context) ([]models.User, error)
	Patients(ctx context.Context) ([]models.Patient, error)
	Clinicians(ctx context.Context) ([]models.Clinician, error)
	PatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	ClinicianByID(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error)
	Seed(ctx context.Context, data store.SeedData, force bool) (bool, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	seed           store.SeedData
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

// WithSeed replaces the data set written by Reset and EnsureSeeded.
func WithSeed(data store.SeedData) Option {
	return func(s *Service) {
		s.seed = data
	}
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, seed: store.DefaultSeed()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load users")
	}
	return users, nil
}

func (s *Service) Patients(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load patients")
	}
	return patients, nil
}

func (s *Service) Clinicians(ctx context.Context) ([]models.Clinician, error) {
	clinicians, err := s.store.Clinicians(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load clinicians")
	}
	return clinicians, nil
}

func (s *Service) Patient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	patient, err := s.store.PatientByID(ctx, patientID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
	}
	if err != nil {
		return nil, storeError(err, "failed to load patient")
	}
	return patient, nil
}

func (s *Service) Clinician(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error) {
	clinician, err := s.store.ClinicianByID(ctx, clinicianID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "clinician not found")
	}
	if err != nil {
		return nil, storeError(err, "failed to load clinician")
	}
	return clinician, nil
}

// EnsureSeeded writes the seed data set into an empty store. It reports
// whether anything was written.
func (s *Service) EnsureSeeded(ctx context.Context) (bool, error) {
	seeded, err := s.store.Seed(ctx, s.seed, false)
	if err != nil {
		return false, storeError(err, "failed to seed records")
	}
	if seeded {
		s.logger.InfoContext(ctx, "record store seeded")
	}
	return seeded, nil
}

// Reset discards every relationship and observation and restores the seed
// patients, clinicians and users.
func (s *Service) Reset(ctx context.Context) error {
	if _, err := s.store.Seed(ctx, s.seed, true); err != nil {
		return storeError(err, "failed to reset records")
	}
	s.metrics.SetActive(0)
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{Action: string(audit.EventRecordsReset)}); err != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event",
				"action", string(audit.EventRecordsReset),
				"error", err,
			)
		}
	}
	s.logger.WarnContext(ctx, "record store reset to seed data")
	return nil
}

// storeError translates backend failures; an unreachable store is reported as
// unavailable, anything else as internal.
func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "record store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"carelock/internal/care/history"
	"carelock/internal/care/models"
	id "carelock/pkg/domain"
)

// Fixed seed identifiers, stable across resets.
var (
	SeedUserPatientMaria    = id.UserID(uuid.MustParse("3f0c6a52-1d7e-4b8e-9a51-0d6a1f3e2b01"))
	SeedUserPatientJoao     = id.UserID(uuid.MustParse("3f0c6a52-1d7e-4b8e-9a51-0d6a1f3e2b02"))
	SeedUserClinicianRuiz   = id.UserID(uuid.MustParse("3f0c6a52-1d7e-4b8e-9a51-0d6a1f3e2b0a"))
	SeedUserClinicianMendez = id.UserID(uuid.MustParse("3f0c6a52-1d7e-4b8e-9a51-0d6a1f3e2b0b"))

	SeedPatientMaria = id.PatientID(uuid.MustParse("8a1e4d7c-52b3-4f60-8c2d-6b9f0e1a3c01"))
	SeedPatientJoao  = id.PatientID(uuid.MustParse("8a1e4d7c-52b3-4f60-8c2d-6b9f0e1a3c02"))

	SeedClinicianRuiz   = id.ClinicianID(uuid.MustParse("c4b2e9f1-7a36-4d18-b5e0-2f8c9d1a6e0a"))
	SeedClinicianMendez = id.ClinicianID(uuid.MustParse("c4b2e9f1-7a36-4d18-b5e0-2f8c9d1a6e0b"))
)

// SeedData is the demonstration data set: two patients with legacy history,
// two clinicians, and no relationships or observations.
type SeedData struct {
	Users      []models.User
	Patients   []models.Patient
	Clinicians []models.Clinician
}

func DefaultSeed() SeedData {
	return SeedData{
		Users: []models.User{
			{ID: SeedUserPatientMaria, Name: "Maria Santos", Role: models.RolePatient},
			{ID: SeedUserPatientJoao, Name: "João Oliveira", Role: models.RolePatient},
			{ID: SeedUserClinicianRuiz, Name: "Dr. Elena Ruiz", Role: models.RoleClinician},
			{ID: SeedUserClinicianMendez, Name: "Dr. Carlos Méndez", Role: models.RoleClinician},
		},
		Patients: []models.Patient{
			{
				ID:          SeedPatientMaria,
				UserID:      SeedUserPatientMaria,
				Name:        "Maria Santos",
				DateOfBirth: "1985-03-14",
				MedicalHistory: history.ParseLines([]string{
					"2023-01-15: Initial assessment — mild lower back discomfort reported",
					"2023-04-22: Follow-up — improved ROM after 8 sessions",
					"2023-09-10: New episode — right shoulder impingement symptoms",
					"2024-01-08: Reassessment — shoulder stable, back recurring",
					"2024-06-20: Functional screening — moderate limitations in overhead tasks",
				}),
			},
			{
				ID:          SeedPatientJoao,
				UserID:      SeedUserPatientJoao,
				Name:        "João Oliveira",
				DateOfBirth: "1990-07-22",
				MedicalHistory: history.ParseLines([]string{
					"2023-03-05: Initial assessment — recurring knee pain after running",
					"2023-06-14: Follow-up — patellofemoral syndrome confirmed",
					"2023-11-02: Progress review — improved with strengthening protocol",
					"2024-02-18: New complaint — Achilles tendon stiffness bilateral",
					"2024-08-10: Reassessment — cleared for return to sport with monitoring",
				}),
			},
		},
		Clinicians: []models.Clinician{
			{ID: SeedClinicianRuiz, UserID: SeedUserClinicianRuiz, Name: "Dr. Elena Ruiz", Specialty: "Musculoskeletal Physiotherapy"},
			{ID: SeedClinicianMendez, UserID: SeedUserClinicianMendez, Name: "Dr. Carlos Méndez", Specialty: "Sports Rehabilitation"},
		},
	}
}

// Initialized reports whether the store has been seeded.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	payload, err := s.load(ctx, collectionInitialized)
	if err != nil {
		return false, err
	}
	return len(payload) > 0, nil
}

// Seed writes data into every collection and clears relationships and
// observations. Without force an already seeded store is left alone.
// It reports whether anything was written.
func (s *Store) Seed(ctx context.Context, data SeedData, force bool) (bool, error) {
	seeded := false
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		if !force {
			initialized, err := s.Initialized(ctx)
			if err != nil {
				return err
			}
			if initialized {
				return nil
			}
		}
		if err := s.SaveUsers(ctx, data.Users); err != nil {
			return err
		}
		if err := s.SavePatients(ctx, data.Patients); err != nil {
			return err
		}
		if err := s.SaveClinicians(ctx, data.Clinicians); err != nil {
			return err
		}
		if err := s.SaveCareRelationships(ctx, nil); err != nil {
			return err
		}
		if err := s.SaveObservations(ctx, nil); err != nil {
			return err
		}
		if err := s.save(ctx, collectionInitialized, []byte("true")); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed record store: %w", err)
	}
	return seeded, nil
}

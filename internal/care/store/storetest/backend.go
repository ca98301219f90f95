// Package storetest runs the same behavioural checks against every record
// store backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelock/internal/care/models"
	"carelock/internal/care/store"
	id "carelock/pkg/domain"
)

var errAbort = errors.New("abort")

// RunBackend exercises b through a Store. newBackend must return a backend
// over empty storage.
func RunBackend(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing collections read as empty", func(t *testing.T) {
		s := store.New(newBackend(t))
		patients, err := s.Patients(ctx)
		require.NoError(t, err)
		assert.Empty(t, patients)
	})

	t.Run("seed round-trips", func(t *testing.T) {
		s := store.New(newBackend(t))
		seeded, err := s.Seed(ctx, store.DefaultSeed(), false)
		require.NoError(t, err)
		require.True(t, seeded)

		patients, err := s.Patients(ctx)
		require.NoError(t, err)
		want := store.DefaultSeed().Patients
		require.Len(t, patients, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, patients[i].ID)
			assert.Equal(t, want[i].Name, patients[i].Name)
			assert.Len(t, patients[i].MedicalHistory, len(want[i].MedicalHistory))
		}

		again, err := s.Seed(ctx, store.DefaultSeed(), false)
		require.NoError(t, err)
		assert.False(t, again)
	})

	t.Run("transaction commits every collection", func(t *testing.T) {
		b := newBackend(t)
		s := store.New(b)
		rel := models.CareRelationship{
			ID:          id.CareRelationshipID(uuid.New()),
			PatientID:   store.SeedPatientMaria,
			ClinicianID: store.SeedClinicianRuiz,
			Status:      models.RelationshipStatusActive,
			StartDate:   time.Date(2025, 1, 2, 3, 4, 5, 6000000, time.UTC),
		}
		err := s.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.SavePatients(ctx, store.DefaultSeed().Patients); err != nil {
				return err
			}
			return s.SaveCareRelationships(ctx, []models.CareRelationship{rel})
		})
		require.NoError(t, err)

		reopened := store.New(b)
		got, err := reopened.CareRelationships(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, rel.StartDate.Equal(got[0].StartDate))
		assert.Equal(t, rel.ID, got[0].ID)

		patients, err := reopened.Patients(ctx)
		require.NoError(t, err)
		assert.Len(t, patients, len(store.DefaultSeed().Patients))
	})

	t.Run("failed transaction writes nothing", func(t *testing.T) {
		s := store.New(newBackend(t))
		err := s.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.SavePatients(ctx, store.DefaultSeed().Patients); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		patients, err := s.Patients(ctx)
		require.NoError(t, err)
		assert.Empty(t, patients)
	})
}

package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
)

func validInput() ObservationInput {
	return ObservationInput{
		CareRelationshipID: id.CareRelationshipID(uuid.New()),
		ClinicianID:        id.ClinicianID(uuid.New()),
		PatientID:          id.PatientID(uuid.New()),
		ObservationDomain:  "Pain & Sensitisation",
		AnatomicalContext:  "Lumbar Spine",
		TriggerCondition:   "Sustained posture",
		MeasurementType:    "Visual Analog Scale (VAS)",
		ConfidenceLevel:    "Moderate",
	}
}

func TestObservationInput_Validate(t *testing.T) {
	t.Run("accepts a complete input", func(t *testing.T) {
		in := validInput()
		require.NoError(t, in.Validate())
	})

	t.Run("normalize trims before validation", func(t *testing.T) {
		in := validInput()
		in.AnatomicalContext = "  Knee \n"
		in.Notes = "  guarded gait  "
		in.Normalize()
		require.NoError(t, in.Validate())
		assert.Equal(t, "Knee", in.AnatomicalContext)
		assert.Equal(t, "guarded gait", in.Notes)
	})

	tests := []struct {
		name   string
		mutate func(*ObservationInput)
		want   string
	}{
		{"missing relationship", func(in *ObservationInput) { in.CareRelationshipID = id.CareRelationshipID{} }, "care_relationship_id"},
		{"missing clinician", func(in *ObservationInput) { in.ClinicianID = id.ClinicianID{} }, "clinician_id"},
		{"missing patient", func(in *ObservationInput) { in.PatientID = id.PatientID{} }, "patient_id"},
		{"blank domain", func(in *ObservationInput) { in.ObservationDomain = "" }, "observation_domain"},
		{"unknown anatomy", func(in *ObservationInput) { in.AnatomicalContext = "Left Ear" }, "anatomical_context"},
		{"unknown trigger", func(in *ObservationInput) { in.TriggerCondition = "Rain" }, "trigger_condition"},
		{"blank measurement", func(in *ObservationInput) { in.MeasurementType = "" }, "measurement_type"},
		{"unknown confidence", func(in *ObservationInput) { in.ConfidenceLevel = "Certain" }, "confidence_level"},
		{"oversized notes", func(in *ObservationInput) { in.Notes = strings.Repeat("x", 2001) }, "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

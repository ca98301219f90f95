package models

import (
	"strings"
	"time"

	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
)

const maxNotesLength = 2000

// Observation is the structured finding that completes a care relationship.
// Immutable once created.
type Observation struct {
	ID                 id.ObservationID      `json:"id"`
	CareRelationshipID id.CareRelationshipID `json:"care_relationship_id"`
	ClinicianID        id.ClinicianID        `json:"clinician_id"`
	PatientID          id.PatientID          `json:"patient_id"`
	ObservationDomain  string                `json:"observation_domain"`
	AnatomicalContext  string                `json:"anatomical_context"`
	TriggerCondition   string                `json:"trigger_condition"`
	MeasurementType    string                `json:"measurement_type"`
	ConfidenceLevel    string                `json:"confidence_level"`
	Notes              string                `json:"notes,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

// ObservationInput is an observation before intake assigns id and createdAt.
type ObservationInput struct {
	CareRelationshipID id.CareRelationshipID
	ClinicianID        id.ClinicianID
	PatientID          id.PatientID
	ObservationDomain  string
	AnatomicalContext  string
	TriggerCondition   string
	MeasurementType    string
	ConfidenceLevel    string
	Notes              string
}

// Normalize trims every free-text field.
func (in *ObservationInput) Normalize() {
	in.ObservationDomain = strings.TrimSpace(in.ObservationDomain)
	in.AnatomicalContext = strings.TrimSpace(in.AnatomicalContext)
	in.TriggerCondition = strings.TrimSpace(in.TriggerCondition)
	in.MeasurementType = strings.TrimSpace(in.MeasurementType)
	in.ConfidenceLevel = strings.TrimSpace(in.ConfidenceLevel)
	in.Notes = strings.TrimSpace(in.Notes)
}

// Validate checks ids, required fields and the controlled vocabularies.
func (in *ObservationInput) Validate() error {
	if in.CareRelationshipID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "care_relationship_id is required")
	}
	if in.ClinicianID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "clinician_id is required")
	}
	if in.PatientID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "patient_id is required")
	}
	fields := []struct {
		name  string
		value string
		vocab Vocabulary
	}{
		{"observation_domain", in.ObservationDomain, ObservationDomains},
		{"anatomical_context", in.AnatomicalContext, AnatomicalContexts},
		{"trigger_condition", in.TriggerCondition, TriggerConditions},
		{"measurement_type", in.MeasurementType, MeasurementTypes},
		{"confidence_level", in.ConfidenceLevel, ConfidenceLevels},
	}
	for _, f := range fields {
		if f.value == "" {
			return dErrors.New(dErrors.CodeValidation, f.name+" is required")
		}
		if !f.vocab.Contains(f.value) {
			return dErrors.New(dErrors.CodeValidation, "unsupported "+f.name+": "+f.value)
		}
	}
	if len([]rune(in.Notes)) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	return nil
}

// Finding extracts the clinical fields summarized in the patient history.
func (o *Observation) Finding() Finding {
	return Finding{
		Domain:     o.ObservationDomain,
		Anatomy:    o.AnatomicalContext,
		Trigger:    o.TriggerCondition,
		Confidence: o.ConfidenceLevel,
	}
}

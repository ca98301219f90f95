package handler

import (
	"strings"

	"carelock/internal/care/models"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
)

// StartRelationshipRequest is the body of POST /patients/{patientID}/care-relationships.
type StartRelationshipRequest struct {
	ClinicianID string `json:"clinician_id"`

	parsedClinicianID id.ClinicianID
}

func (r *StartRelationshipRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	clinicianID, err := id.ParseClinicianID(strings.TrimSpace(r.ClinicianID))
	if err != nil {
		return err
	}
	r.parsedClinicianID = clinicianID
	return nil
}

func (r *StartRelationshipRequest) ParsedClinicianID() id.ClinicianID {
	return r.parsedClinicianID
}

// RecordObservationRequest is the body of
// POST /clinicians/{clinicianID}/care-relationships/{relationshipID}/observations.
// Field values are checked against the vocabularies by intake.
type RecordObservationRequest struct {
	PatientID         string `json:"patient_id"`
	ObservationDomain string `json:"observation_domain"`
	AnatomicalContext string `json:"anatomical_context"`
	TriggerCondition  string `json:"trigger_condition"`
	MeasurementType   string `json:"measurement_type"`
	ConfidenceLevel   string `json:"confidence_level"`
	Notes             string `json:"notes"`

	parsedPatientID id.PatientID
}

func (r *RecordObservationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	// Size check before any parsing.
	if len(r.Notes) > 4*2000 {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	patientID, err := id.ParsePatientID(strings.TrimSpace(r.PatientID))
	if err != nil {
		return err
	}
	r.parsedPatientID = patientID
	return nil
}

// Input binds the body to the relationship and clinician from the path.
func (r *RecordObservationRequest) Input(relationshipID id.CareRelationshipID, clinicianID id.ClinicianID) models.ObservationInput {
	return models.ObservationInput{
		CareRelationshipID: relationshipID,
		ClinicianID:        clinicianID,
		PatientID:          r.parsedPatientID,
		ObservationDomain:  r.ObservationDomain,
		AnatomicalContext:  r.AnatomicalContext,
		TriggerCondition:   r.TriggerCondition,
		MeasurementType:    r.MeasurementType,
		ConfidenceLevel:    r.ConfidenceLevel,
		Notes:              r.Notes,
	}
}

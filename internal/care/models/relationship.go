package models

import (
	"time"

	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
)

type RelationshipStatus string

const (
	RelationshipStatusActive    RelationshipStatus = "active"
	RelationshipStatusCompleted RelationshipStatus = "completed"
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
// The only transition is active -> completed.
func (s RelationshipStatus) CanTransitionTo(next RelationshipStatus) bool {
	return s == RelationshipStatusActive && next == RelationshipStatusCompleted
}

func (s RelationshipStatus) IsValid() bool {
	return s == RelationshipStatusActive || s == RelationshipStatusCompleted
}

// CareRelationship is a bounded engagement of one clinician with one patient.
//
// Invariants:
//   - A clinician has at most one active relationship at a time (enforced by
//     the ledger at creation)
//   - Status moves active -> completed exactly once, driven by the intake of
//     the relationship's observation
//   - ObservationsAdded is true iff Status is completed
//
// While a relationship is active the clinician is locked: they may see the
// audit view of this patient and nothing else until they contribute.
type CareRelationship struct {
	ID                id.CareRelationshipID `json:"id"`
	PatientID         id.PatientID          `json:"patient_id"`
	ClinicianID       id.ClinicianID        `json:"clinician_id"`
	Status            RelationshipStatus    `json:"status"`
	StartDate         time.Time             `json:"start_date"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	ObservationsAdded bool                  `json:"observations_added"`
}

func NewCareRelationship(relationshipID id.CareRelationshipID, patientID id.PatientID, clinicianID id.ClinicianID, now time.Time) (*CareRelationship, error) {
	if patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient id is required")
	}
	if clinicianID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "clinician id is required")
	}
	return &CareRelationship{
		ID:          relationshipID,
		PatientID:   patientID,
		ClinicianID: clinicianID,
		Status:      RelationshipStatusActive,
		StartDate:   now,
	}, nil
}

func (r *CareRelationship) IsActive() bool {
	return r.Status == RelationshipStatusActive
}

// CanComplete checks whether the relationship may receive its completing
// observation. Use with ApplyCompletion inside a store transaction.
func (r *CareRelationship) CanComplete() error {
	if !r.Status.CanTransitionTo(RelationshipStatusCompleted) {
		return dErrors.New(dErrors.CodeDuplicateCompletion, "care relationship is already completed")
	}
	return nil
}

// ApplyCompletion marks the contribution and ends the engagement.
// Call CanComplete first.
func (r *CareRelationship) ApplyCompletion(now time.Time) {
	r.Status = RelationshipStatusCompleted
	r.ObservationsAdded = true
	r.CompletedAt = &now
}

// HasContributed reports whether the relationship unlocked the scoped view.
func (r *CareRelationship) HasContributed() bool {
	return r.ObservationsAdded
}

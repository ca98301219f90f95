package handler

import (
	"time"

	"carelock/internal/care/history"
	"carelock/internal/care/models"
	"carelock/internal/care/visibility"
	id "carelock/pkg/domain"
)

type UsersResponse struct {
	Users []models.User `json:"users"`
}

type CliniciansResponse struct {
	Clinicians []models.Clinician `json:"clinicians"`
}

// PatientSummary leaves the medical history out of listings.
type PatientSummary struct {
	ID          id.PatientID `json:"id"`
	UserID      id.UserID    `json:"user_id"`
	Name        string       `json:"name"`
	DateOfBirth string       `json:"date_of_birth"`
}

type PatientsResponse struct {
	Patients []PatientSummary `json:"patients"`
}

func FromPatients(patients []models.Patient) PatientsResponse {
	out := make([]PatientSummary, 0, len(patients))
	for _, p := range patients {
		out = append(out, PatientSummary{ID: p.ID, UserID: p.UserID, Name: p.Name, DateOfBirth: p.DateOfBirth})
	}
	return PatientsResponse{Patients: out}
}

// PatientRecordResponse is the patient's own, unredacted record.
type PatientRecordResponse struct {
	PatientSummary
	MedicalHistory []string             `json:"medical_history"`
	Observations   []models.Observation `json:"observations"`
}

func FromPatientRecord(p *models.Patient, observations []models.Observation) PatientRecordResponse {
	if observations == nil {
		observations = []models.Observation{}
	}
	return PatientRecordResponse{
		PatientSummary: PatientSummary{ID: p.ID, UserID: p.UserID, Name: p.Name, DateOfBirth: p.DateOfBirth},
		MedicalHistory: history.RenderAll(p.MedicalHistory),
		Observations:   observations,
	}
}

type RelationshipResponse struct {
	ID                string     `json:"id"`
	PatientID         string     `json:"patient_id"`
	ClinicianID       string     `json:"clinician_id"`
	Status            string     `json:"status"`
	StartDate         time.Time  `json:"start_date"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ObservationsAdded bool       `json:"observations_added"`
}

func FromRelationship(rel *models.CareRelationship) RelationshipResponse {
	return RelationshipResponse{
		ID:                rel.ID.String(),
		PatientID:         rel.PatientID.String(),
		ClinicianID:       rel.ClinicianID.String(),
		Status:            string(rel.Status),
		StartDate:         rel.StartDate,
		CompletedAt:       rel.CompletedAt,
		ObservationsAdded: rel.ObservationsAdded,
	}
}

type RelationshipsResponse struct {
	CareRelationships []RelationshipResponse `json:"care_relationships"`
}

func FromRelationships(rels []models.CareRelationship) RelationshipsResponse {
	out := make([]RelationshipResponse, 0, len(rels))
	for i := range rels {
		out = append(out, FromRelationship(&rels[i]))
	}
	return RelationshipsResponse{CareRelationships: out}
}

// LockResponse drives the lock banner.
type LockResponse struct {
	Locked       bool                  `json:"locked"`
	Relationship *RelationshipResponse `json:"relationship"`
}

type HistoryResponse struct {
	Entries []string `json:"entries"`
}

func FromHistory(h visibility.History) HistoryResponse {
	return HistoryResponse{Entries: h.Lines()}
}

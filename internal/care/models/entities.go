package models

import (
	id "carelock/pkg/domain"
)

// Role is the pre-selected role a user acts under. Roles are chosen, not
// authenticated.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

type User struct {
	ID   id.UserID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// Patient owns an append-only medical history. Entries are kept in append
// order, which is chronological by construction; nothing re-sorts them.
type Patient struct {
	ID             id.PatientID   `json:"id"`
	UserID         id.UserID      `json:"user_id"`
	Name           string         `json:"name"`
	DateOfBirth    string         `json:"date_of_birth"`
	MedicalHistory []HistoryEntry `json:"medical_history"`
}

// Clinician is immutable after seeding.
type Clinician struct {
	ID        id.ClinicianID `json:"id"`
	UserID    id.UserID      `json:"user_id"`
	Name      string         `json:"name"`
	Specialty string         `json:"specialty"`
}

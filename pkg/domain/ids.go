// Package domain holds the typed identifiers shared by every care module.
//
// Each identifier is a distinct named type over uuid.UUID so that a patient id
// can never be passed where a clinician id is expected. Construct identifiers
// from untrusted input with the Parse functions; they reject empty, malformed
// and nil UUIDs.
package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "carelock/pkg/domain-errors"
)

type (
	UserID             uuid.UUID
	PatientID          uuid.UUID
	ClinicianID        uuid.UUID
	CareRelationshipID uuid.UUID
	ObservationID      uuid.UUID
)

func parseID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return parsed, nil
}

func unmarshalID(kind string, dst *uuid.UUID, text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	*dst = parsed
	return nil
}

// ParseUserID parses a user id from its string form.
func ParseUserID(s string) (UserID, error) {
	u, err := parseID("user_id", s)
	return UserID(u), err
}

// ParsePatientID parses a patient id from its string form.
func ParsePatientID(s string) (PatientID, error) {
	u, err := parseID("patient_id", s)
	return PatientID(u), err
}

// ParseClinicianID parses a clinician id from its string form.
func ParseClinicianID(s string) (ClinicianID, error) {
	u, err := parseID("clinician_id", s)
	return ClinicianID(u), err
}

// ParseCareRelationshipID parses a care relationship id from its string form.
func ParseCareRelationshipID(s string) (CareRelationshipID, error) {
	u, err := parseID("care_relationship_id", s)
	return CareRelationshipID(u), err
}

// ParseObservationID parses an observation id from its string form.
func ParseObservationID(s string) (ObservationID, error) {
	u, err := parseID("observation_id", s)
	return ObservationID(u), err
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *UserID) UnmarshalText(text []byte) error {
	return unmarshalID("user_id", (*uuid.UUID)(id), text)
}

func (id PatientID) String() string { return uuid.UUID(id).String() }
func (id PatientID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *PatientID) UnmarshalText(text []byte) error {
	return unmarshalID("patient_id", (*uuid.UUID)(id), text)
}

func (id ClinicianID) String() string { return uuid.UUID(id).String() }
func (id ClinicianID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ClinicianID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ClinicianID) UnmarshalText(text []byte) error {
	return unmarshalID("clinician_id", (*uuid.UUID)(id), text)
}

func (id CareRelationshipID) String() string { return uuid.UUID(id).String() }
func (id CareRelationshipID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CareRelationshipID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *CareRelationshipID) UnmarshalText(text []byte) error {
	return unmarshalID("care_relationship_id", (*uuid.UUID)(id), text)
}

func (id ObservationID) String() string { return uuid.UUID(id).String() }
func (id ObservationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ObservationID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ObservationID) UnmarshalText(text []byte) error {
	return unmarshalID("observation_id", (*uuid.UUID)(id), text)
}

package models

import (
	"time"

	id "carelock/pkg/domain"
)

// EntryKind tags the variant held by a HistoryEntry.
type EntryKind string

const (
	// EntryKindRaw is pre-existing, unattributed clinical history.
	EntryKindRaw EntryKind = "raw"
	// EntryKindObservation is a clinician-authored observation summary.
	EntryKindObservation EntryKind = "observation"
)

// DatePrecision records how an entry's date was written so that rendering
// reproduces it exactly.
type DatePrecision string

const (
	PrecisionNone    DatePrecision = ""
	PrecisionDay     DatePrecision = "day"
	PrecisionInstant DatePrecision = "instant"
)

// Attribution names the clinician who authored an observation entry.
// ClinicianID is nil for entries imported from legacy text.
type Attribution struct {
	ClinicianID id.ClinicianID `json:"clinician_id"`
	Name        string         `json:"name"`
}

// Finding is the clinical content of an observation entry.
type Finding struct {
	Domain     string `json:"domain"`
	Anatomy    string `json:"anatomy"`
	Trigger    string `json:"trigger"`
	Confidence string `json:"confidence"`
}

// HistoryEntry is one line of a patient's medical history.
//
// Raw entries carry Text and, when the source line had one, a date.
// Observation entries carry an instant, the Author and either a Finding or,
// for legacy lines whose body could not be split into fields, Text.
// DateText keeps the date exactly as written in an imported line; entries
// created by intake leave it empty and render RecordedAt instead.
// A redacted observation entry has a nil Author and keeps everything else.
type HistoryEntry struct {
	Kind          EntryKind         `json:"kind"`
	RecordedAt    time.Time         `json:"recorded_at"`
	Precision     DatePrecision     `json:"precision,omitempty"`
	DateText      string            `json:"date_text,omitempty"`
	Text          string            `json:"text,omitempty"`
	Author        *Attribution      `json:"author,omitempty"`
	Finding       *Finding          `json:"finding,omitempty"`
	ObservationID *id.ObservationID `json:"observation_id,omitempty"`
}

// IsDated reports whether the entry has a date usable for time scoping.
func (e HistoryEntry) IsDated() bool {
	return e.Precision != PrecisionNone && !e.RecordedAt.IsZero()
}

// IsAttributed reports whether the entry still names its author.
func (e HistoryEntry) IsAttributed() bool {
	return e.Kind == EntryKindObservation && e.Author != nil
}

// NewObservationEntry builds the history entry appended by intake.
func NewObservationEntry(obs *Observation, author *Clinician) HistoryEntry {
	finding := obs.Finding()
	obsID := obs.ID
	return HistoryEntry{
		Kind:       EntryKindObservation,
		RecordedAt: obs.CreatedAt,
		Precision:  PrecisionInstant,
		Author: &Attribution{
			ClinicianID: author.ID,
			Name:        author.Name,
		},
		Finding:       &finding,
		ObservationID: &obsID,
	}
}

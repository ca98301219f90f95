// Package history is the redaction engine for patient medical histories.
//
// It renders structured entries into the human-readable line format, parses
// legacy lines back into structured entries, strips authorship from entries a
// viewer did not write, and scopes a history to a cutoff instant. Everything
// here is pure; callers load and store entries.
//
// Line format of an observation entry:
//
//	2024-06-20T09:30:00.000Z: [Dr. Elena Ruiz] Pain & Sensitisation — Lumbar Spine, Sustained posture (Moderate)
//
// A redacted observation entry drops the bracketed author and the space after
// it. Raw entries are rendered verbatim.
package history

import (
	"strings"
	"time"

	"carelock/internal/care/models"
	id "carelock/pkg/domain"
)

const (
	dayLayout     = "2006-01-02"
	instantLayout = "2006-01-02T15:04:05.000Z"
)

// Viewer identifies who is looking at a history. The zero Viewer is
// anonymous and owns no entries.
type Viewer struct {
	ClinicianID id.ClinicianID
	Name        string
}

// ViewerFor builds the viewer for a clinician.
func ViewerFor(c *models.Clinician) Viewer {
	if c == nil {
		return Viewer{}
	}
	return Viewer{ClinicianID: c.ID, Name: c.Name}
}

// Owns reports whether the viewer authored the entry. Ids decide when both
// sides have one; entries imported from text fall back to exact name match.
func (v Viewer) Owns(e models.HistoryEntry) bool {
	if !e.IsAttributed() {
		return false
	}
	if !v.ClinicianID.IsNil() && !e.Author.ClinicianID.IsNil() {
		return v.ClinicianID == e.Author.ClinicianID
	}
	return v.Name != "" && e.Author.Name == v.Name
}

// Redact strips the author from entries the viewer did not write.
// Unattributed entries and the viewer's own entries pass through unchanged.
func Redact(e models.HistoryEntry, v Viewer) models.HistoryEntry {
	if !e.IsAttributed() || v.Owns(e) {
		return e
	}
	e.Author = nil
	return e
}

// RedactAll applies Redact to every entry, preserving order.
func RedactAll(entries []models.HistoryEntry, v Viewer) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Redact(e, v))
	}
	return out
}

// UpTo keeps entries dated at or before cutoff. Entries without a usable date
// are dropped.
func UpTo(entries []models.HistoryEntry, cutoff time.Time) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDated() || e.RecordedAt.After(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NextInstant returns at truncated to milliseconds, moved forward when needed
// so it falls strictly after every dated entry. Appending an entry stamped
// with the result keeps the history chronological and leaves every existing
// cutoff's view unchanged.
func NextInstant(entries []models.HistoryEntry, at time.Time) time.Time {
	at = at.UTC().Truncate(time.Millisecond)
	for _, e := range entries {
		if !e.IsDated() {
			continue
		}
		if floor := e.RecordedAt.UTC().Truncate(time.Millisecond).Add(time.Millisecond); at.Before(floor) {
			at = floor
		}
	}
	return at
}

// Render produces the line form of an entry.
func Render(e models.HistoryEntry) string {
	if e.Kind != models.EntryKindObservation {
		return e.Text
	}
	var b strings.Builder
	b.WriteString(dateText(e))
	b.WriteString(": ")
	if e.Author != nil {
		b.WriteString("[")
		b.WriteString(e.Author.Name)
		b.WriteString("] ")
	}
	b.WriteString(body(e))
	return b.String()
}

// RenderAll renders every entry, preserving order.
func RenderAll(entries []models.HistoryEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, Render(e))
	}
	return lines
}

func body(e models.HistoryEntry) string {
	if e.Finding == nil {
		return e.Text
	}
	f := e.Finding
	return f.Domain + " — " + f.Anatomy + ", " + f.Trigger + " (" + f.Confidence + ")"
}

// dateText prefers the date as originally written so imported lines render
// back unchanged.
func dateText(e models.HistoryEntry) string {
	if e.DateText != "" {
		return e.DateText
	}
	if e.Precision == models.PrecisionDay {
		return e.RecordedAt.UTC().Format(dayLayout)
	}
	return e.RecordedAt.UTC().Format(instantLayout)
}

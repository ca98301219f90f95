package history

import (
	"regexp"
	"strings"
	"time"

	"carelock/internal/care/models"
)

var (
	leadingDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(?:T[\d:.]+Z)?)`)
	attributed  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(?:T[\d:.]+Z)?): \[(.+?)\] (.*)$`)
	findingBody = regexp.MustCompile(`^(.+?) — ([^,]+), (.+) \(([^()]+)\)$`)
)

// ParseLine reads a history line in the legacy text form.
//
// Lines of the form "<date>: [<name>] <body>" become observation entries
// attributed by name only; when the body matches the observation summary
// layout its fields are recovered into a Finding. Everything else is a raw
// entry kept verbatim, dated when the line starts with a parseable date.
func ParseLine(line string) models.HistoryEntry {
	if m := attributed.FindStringSubmatch(line); m != nil {
		if at, precision, ok := parseDate(m[1]); ok {
			e := models.HistoryEntry{
				Kind:       models.EntryKindObservation,
				RecordedAt: at,
				Precision:  precision,
				DateText:   m[1],
				Author:     &models.Attribution{Name: m[2]},
			}
			if f := findingBody.FindStringSubmatch(m[3]); f != nil {
				e.Finding = &models.Finding{Domain: f[1], Anatomy: f[2], Trigger: f[3], Confidence: f[4]}
			} else {
				e.Text = m[3]
			}
			return e
		}
	}

	e := models.HistoryEntry{Kind: models.EntryKindRaw, Text: line}
	if m := leadingDate.FindStringSubmatch(line); m != nil {
		if at, precision, ok := parseDate(m[1]); ok {
			e.RecordedAt = at
			e.Precision = precision
			e.DateText = m[1]
		}
	}
	return e
}

// ParseLines parses each line in order.
func ParseLines(lines []string) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, ParseLine(line))
	}
	return entries
}

// parseDate accepts a calendar day (read as UTC midnight) or an RFC 3339
// instant in UTC.
func parseDate(s string) (time.Time, models.DatePrecision, bool) {
	if !strings.Contains(s, "T") {
		t, err := time.Parse(dayLayout, s)
		if err != nil {
			return time.Time{}, models.PrecisionNone, false
		}
		return t, models.PrecisionDay, true
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, models.PrecisionNone, false
	}
	return t.UTC(), models.PrecisionInstant, true
}

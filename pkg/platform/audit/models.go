package audit

import (
	"context"
	"time"

	id "carelock/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events that change the clinical record or its
	// custody: who started caring for whom, and what was contributed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryAccess covers reads of a patient's history.
	CategoryAccess EventCategory = "access"

	// CategoryOperations covers routine activity such as seed resets.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from care services to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category       EventCategory
	Timestamp      time.Time
	Action         string
	ClinicianID    id.ClinicianID
	PatientID      id.PatientID
	RelationshipID id.CareRelationshipID
	// Detail is a short machine-readable qualifier, e.g. the history view kind.
	Detail    string
	RequestID string
}

type AuditEvent string

const (
	EventCareRelationshipStarted   AuditEvent = "care_relationship_started"
	EventCareRelationshipCompleted AuditEvent = "care_relationship_completed"
	EventObservationRecorded       AuditEvent = "observation_recorded"
	EventHistoryViewed             AuditEvent = "history_viewed"
	EventAccessDecided             AuditEvent = "access_decided"
	EventRecordsReset              AuditEvent = "records_reset"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCareRelationshipStarted:   CategoryCompliance,
	EventCareRelationshipCompleted: CategoryCompliance,
	EventObservationRecorded:       CategoryCompliance,
	EventHistoryViewed:             CategoryAccess,
	EventAccessDecided:             CategoryAccess,
	EventRecordsReset:              CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

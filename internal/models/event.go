package models

import (
	"time"

	"github.com/lib/pq"
)

// EventStatus tracks an event through production. Any value may follow any other.
type EventStatus string

const (
	EventStatusCreated            EventStatus = "event_created"
	EventStatusScheduled          EventStatus = "event_scheduled"
	EventStatusShootCompleted     EventStatus = "shoot_completed"
	EventStatusDeliveryInProgress EventStatus = "delivery_in_progress"
	EventStatusClosed             EventStatus = "closed"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusCreated, EventStatusScheduled, EventStatusShootCompleted, EventStatusDeliveryInProgress, EventStatusClosed:
		return true
	}
	return false
}

// EventPriority ranks an event for the production team.
type EventPriority string

const (
	PriorityNormal EventPriority = "normal"
	PriorityHigh   EventPriority = "high"
	PriorityVIP    EventPriority = "vip"
)

// Valid reports whether p is a known priority.
func (p EventPriority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityVIP:
		return true
	}
	return false
}

// Requirement is a deliverable kind requested for an event.
type Requirement string

const (
	RequirementPhotos         Requirement = "photos"
	RequirementVideoCoverage  Requirement = "video_coverage"
	RequirementHighlightVideo Requirement = "highlight_video"
	RequirementInstagramReel  Requirement = "instagram_reel"
	RequirementLiveStream     Requirement = "live_stream"
	RequirementDrone          Requirement = "drone"
)

// NormalizeRequirements collapses duplicates keeping first-seen order and
// never returns nil, since the column is NOT NULL.
func NormalizeRequirements(in []string) pq.StringArray {
	seen := make(map[string]struct{}, len(in))
	out := make(pq.StringArray, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Event is a single production engagement for an institution.
type Event struct {
	ID                 string         `db:"id" json:"id"`
	Title              string         `db:"title" json:"title"`
	InstitutionID      string         `db:"institution_id" json:"institution_id"`
	Department         *string        `db:"department" json:"department"`
	EventDateStart     time.Time      `db:"event_date_start" json:"event_date_start"`
	EventDateEnd       *time.Time     `db:"event_date_end" json:"event_date_end"`
	Venue              *string        `db:"venue" json:"venue"`
	Description        *string        `db:"description" json:"description"`
	EventType          *string        `db:"event_type" json:"event_type"`
	ExpectedAudience   *int           `db:"expected_audience" json:"expected_audience"`
	ChiefGuests        *string        `db:"chief_guests" json:"chief_guests"`
	Requirements       pq.StringArray `db:"requirements" json:"requirements"`
	Comments           *string        `db:"comments" json:"comments"`
	Priority           EventPriority  `db:"priority" json:"priority"`
	DeliverableDueDate *time.Time     `db:"deliverable_due_date" json:"deliverable_due_date"`
	Status             EventStatus    `db:"status" json:"status"`
	CreatedBy          string         `db:"created_by" json:"created_by"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// EventDetail is an event enriched with its institution name.
type EventDetail struct {
	Event
	InstitutionName *string `json:"institution_name"`
}

// EventFilter captures equality filters for listing events.
type EventFilter struct {
	Status        *EventStatus
	InstitutionID *string
	Priority      *EventPriority
}

// EventCountFilter selects events for aggregate counts.
type EventCountFilter struct {
	Status        *EventStatus
	StatusNot     *EventStatus
	StartFrom     *time.Time
	CreatedFrom   *time.Time
	InstitutionID *string
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title              string        `json:"title" validate:"required"`
	InstitutionID      string        `json:"institution_id" validate:"required"`
	Department         *string       `json:"department"`
	EventDateStart     *ISOTime      `json:"event_date_start" validate:"required"`
	EventDateEnd       *ISOTime      `json:"event_date_end"`
	Venue              *string       `json:"venue"`
	Description        *string       `json:"description"`
	EventType          *string       `json:"event_type"`
	ExpectedAudience   *int          `json:"expected_audience" validate:"omitempty,min=0"`
	ChiefGuests        *string       `json:"chief_guests"`
	Requirements       []string      `json:"requirements" validate:"omitempty,dive,oneof=photos video_coverage highlight_video instagram_reel live_stream drone"`
	Comments           *string       `json:"comments"`
	Priority           EventPriority `json:"priority" validate:"omitempty,oneof=normal high vip"`
	DeliverableDueDate *ISOTime      `json:"deliverable_due_date"`
	Status             EventStatus   `json:"status" validate:"omitempty,oneof=event_created event_scheduled shoot_completed delivery_in_progress closed"`
}

// UpdateEventRequest is a partial event update. A nil field is left
// unchanged; a nil Requirements slice is absent while an empty one clears it.
type UpdateEventRequest struct {
	Title              *string        `json:"title" validate:"omitempty,min=1"`
	InstitutionID      *string        `json:"institution_id" validate:"omitempty,min=1"`
	Department         *string        `json:"department"`
	EventDateStart     *ISOTime       `json:"event_date_start"`
	EventDateEnd       NullableTime   `json:"event_date_end"`
	Venue              *string        `json:"venue"`
	Description        *string        `json:"description"`
	EventType          *string        `json:"event_type"`
	ExpectedAudience   *int           `json:"expected_audience" validate:"omitempty,min=0"`
	ChiefGuests        *string        `json:"chief_guests"`
	Requirements       []string       `json:"requirements" validate:"omitempty,dive,oneof=photos video_coverage highlight_video instagram_reel live_stream drone"`
	Comments           *string        `json:"comments"`
	Priority           *EventPriority `json:"priority" validate:"omitempty,oneof=normal high vip"`
	DeliverableDueDate NullableTime   `json:"deliverable_due_date"`
	Status             *EventStatus   `json:"status" validate:"omitempty,oneof=event_created event_scheduled shoot_completed delivery_in_progress closed"`
}

package models

import "time"

// PublicDeliverable is a completed task published on the public listing.
// CompletedAt carries the task creation time; no completion time is recorded.
type PublicDeliverable struct {
	ID              string        `json:"id"`
	EventTitle      string        `json:"event_title"`
	InstitutionName string        `json:"institution_name"`
	EventDate       time.Time     `json:"event_date"`
	TaskType        TaskType      `json:"task_type"`
	DeliverableLink string        `json:"deliverable_link"`
	Priority        EventPriority `json:"priority"`
	CompletedAt     time.Time     `json:"completed_at"`
}

// DeliverableFilter narrows the public listing by exact match.
type DeliverableFilter struct {
	InstitutionID *string
	TaskType      *TaskType
}

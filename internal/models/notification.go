package models

import "time"

// NotificationType classifies workflow notifications.
type NotificationType string

const (
	NotificationTaskAssigned       NotificationType = "task_assigned"
	NotificationTaskCompleted      NotificationType = "task_completed"
	NotificationEventStatusChanged NotificationType = "event_status_changed"
	NotificationEventCreated       NotificationType = "event_created"
)

// Notification is a polled message addressed to a single user.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	RelatedID *string          `db:"related_id" json:"related_id"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

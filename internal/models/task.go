package models

import "time"

// TaskType is the kind of deliverable a task produces.
type TaskType string

const (
	TaskTypePhoto   TaskType = "photo"
	TaskTypeVideo   TaskType = "video"
	TaskTypeEditing TaskType = "editing"
	TaskTypeOther   TaskType = "other"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypePhoto, TaskTypeVideo, TaskTypeEditing, TaskTypeOther:
		return true
	}
	return false
}

// TaskStatus is the progress of a task. Transitions are not ordered.
type TaskStatus string

const (
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a deliverable assignment belonging to an event.
type Task struct {
	ID              string     `db:"id" json:"id"`
	EventID         string     `db:"event_id" json:"event_id"`
	Type            TaskType   `db:"type" json:"type"`
	AssignedTo      string     `db:"assigned_to" json:"assigned_to"`
	DueDate         *time.Time `db:"due_date" json:"due_date"`
	Status          TaskStatus `db:"status" json:"status"`
	DeliverableLink *string    `db:"deliverable_link" json:"deliverable_link"`
	Comments        *string    `db:"comments" json:"comments"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// TaskDetail is a task enriched with its event, institution and assignee names.
type TaskDetail struct {
	Task
	EventTitle      *string    `json:"event_title"`
	EventDate       *time.Time `json:"event_date"`
	InstitutionName *string    `json:"institution_name"`
	AssignedToName  *string    `json:"assigned_to_name"`
}

// TaskFilter captures equality filters for listing tasks.
type TaskFilter struct {
	Status     *TaskStatus
	AssignedTo *string
	EventID    *string
	// HasDeliverable restricts to tasks with a non-empty deliverable link.
	HasDeliverable bool
}

// TaskCountFilter selects tasks for aggregate counts.
type TaskCountFilter struct {
	Status    *TaskStatus
	StatusNot *TaskStatus
	DueBefore *time.Time
	EventID   *string
}

// TaskField names a mutable task attribute.
type TaskField string

const (
	TaskFieldEventID         TaskField = "event_id"
	TaskFieldType            TaskField = "type"
	TaskFieldAssignedTo      TaskField = "assigned_to"
	TaskFieldDueDate         TaskField = "due_date"
	TaskFieldStatus          TaskField = "status"
	TaskFieldDeliverableLink TaskField = "deliverable_link"
	TaskFieldComments        TaskField = "comments"
)

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	EventID         string     `json:"event_id" validate:"required"`
	Type            TaskType   `json:"type" validate:"required,oneof=photo video editing other"`
	AssignedTo      string     `json:"assigned_to" validate:"required"`
	DueDate         *ISOTime   `json:"due_date"`
	Status          TaskStatus `json:"status" validate:"omitempty,oneof=assigned in_progress completed"`
	DeliverableLink *string    `json:"deliverable_link"`
	Comments        *string    `json:"comments"`
}

// TaskPatch is a partial task update; nil fields are absent. DueDate uses
// NullableTime so an explicit null clears it.
type TaskPatch struct {
	EventID         *string      `json:"event_id" validate:"omitempty,min=1"`
	Type            *TaskType    `json:"type" validate:"omitempty,oneof=photo video editing other"`
	AssignedTo      *string      `json:"assigned_to" validate:"omitempty,min=1"`
	DueDate         NullableTime `json:"due_date"`
	Status          *TaskStatus  `json:"status" validate:"omitempty,oneof=assigned in_progress completed"`
	DeliverableLink *string      `json:"deliverable_link"`
	Comments        *string      `json:"comments"`
}

// TaskUpdateResult reports the stored task and which patch fields were applied.
type TaskUpdateResult struct {
	Task          Task        `json:"task"`
	AppliedFields []TaskField `json:"applied_fields"`
}

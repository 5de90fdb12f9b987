package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mediahub-api/internal/models"
)

const eventColumns = `id, title, institution_id, department, event_date_start, event_date_end, venue, description, event_type, expected_audience, chief_guests, requirements, comments, priority, deliverable_due_date, status, created_by, created_at`

// EventRepository persists events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events matching the filter, latest start first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var conds conditions
	if filter.Status != nil {
		conds.add("status = $%d", *filter.Status)
	}
	if filter.InstitutionID != nil {
		conds.add("institution_id = $%d", *filter.InstitutionID)
	}
	if filter.Priority != nil {
		conds.add("priority = $%d", *filter.Priority)
	}

	query := `SELECT ` + eventColumns + ` FROM events` + conds.where() + ` ORDER BY event_date_start DESC`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Count returns the number of events matching the filter.
func (r *EventRepository) Count(ctx context.Context, filter models.EventCountFilter) (int, error) {
	var conds conditions
	if filter.Status != nil {
		conds.add("status = $%d", *filter.Status)
	}
	if filter.StatusNot != nil {
		conds.add("status <> $%d", *filter.StatusNot)
	}
	if filter.StartFrom != nil {
		conds.add("event_date_start >= $%d", *filter.StartFrom)
	}
	if filter.CreatedFrom != nil {
		conds.add("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.InstitutionID != nil {
		conds.add("institution_id = $%d", *filter.InstitutionID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`+conds.where(), conds.args...); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// FindByID returns an event by id.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Requirements == nil {
		event.Requirements = models.NormalizeRequirements(nil)
	}
	const query = `INSERT INTO events (` + eventColumns + `) VALUES (:id, :title, :institution_id, :department, :event_date_start, :event_date_end, :venue, :description, :event_type, :expected_audience, :chief_guests, :requirements, :comments, :priority, :deliverable_due_date, :status, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update writes every mutable event field. created_by and created_at are kept.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event.Requirements == nil {
		event.Requirements = models.NormalizeRequirements(nil)
	}
	const query = `UPDATE events SET title = :title, institution_id = :institution_id, department = :department, event_date_start = :event_date_start, event_date_end = :event_date_end, venue = :venue, description = :description, event_type = :event_type, expected_audience = :expected_audience, chief_guests = :chief_guests, requirements = :requirements, comments = :comments, priority = :priority, deliverable_due_date = :deliverable_due_date, status = :status WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	_, err = requireAffected(res, "update event")
	return err
}

// Delete removes an event row only; dependants are handled by the caller.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	_, err = requireAffected(res, "delete event")
	return err
}

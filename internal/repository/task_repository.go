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

const taskColumns = `id, event_id, type, assigned_to, due_date, status, deliverable_link, comments, created_at`

// TaskRepository persists deliverable tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns tasks matching the filter, earliest due date first with
// undated tasks leading.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var conds conditions
	if filter.Status != nil {
		conds.add("status = $%d", *filter.Status)
	}
	if filter.AssignedTo != nil {
		conds.add("assigned_to = $%d", *filter.AssignedTo)
	}
	if filter.EventID != nil {
		conds.add("event_id = $%d", *filter.EventID)
	}
	if filter.HasDeliverable {
		conds.addRaw("deliverable_link IS NOT NULL AND deliverable_link <> ''")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + conds.where() + ` ORDER BY due_date ASC NULLS FIRST`
	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns the number of tasks matching the filter.
func (r *TaskRepository) Count(ctx context.Context, filter models.TaskCountFilter) (int, error) {
	var conds conditions
	if filter.Status != nil {
		conds.add("status = $%d", *filter.Status)
	}
	if filter.StatusNot != nil {
		conds.add("status <> $%d", *filter.StatusNot)
	}
	if filter.DueBefore != nil {
		conds.add("due_date IS NOT NULL AND due_date < $%d", *filter.DueBefore)
	}
	if filter.EventID != nil {
		conds.add("event_id = $%d", *filter.EventID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tasks`+conds.where(), conds.args...); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, nil
}

// FindByID returns a task by id.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO tasks (` + taskColumns + `) VALUES (:id, :event_id, :type, :assigned_to, :due_date, :status, :deliverable_link, :comments, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update writes every mutable task field.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	const query = `UPDATE tasks SET event_id = :event_id, type = :type, assigned_to = :assigned_to, due_date = :due_date, status = :status, deliverable_link = :deliverable_link, comments = :comments WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	_, err = requireAffected(res, "update task")
	return err
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	_, err = requireAffected(res, "delete task")
	return err
}

// DeleteByEvent removes every task of an event and returns how many were removed.
func (r *TaskRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete tasks by event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete tasks by event rows affected: %w", err)
	}
	return n, nil
}

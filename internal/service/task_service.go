package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/policy"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

type taskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskService implements the task workflow: scoped reads, role restricted
// updates and the assignment and completion notifications.
type TaskService struct {
	tasks        taskRepository
	events       eventFinder
	institutions institutionFinder
	users        userFinder
	policy       *policy.Policy
	notifier     notifier
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewTaskService constructs the service.
func NewTaskService(tasks taskRepository, events eventFinder, institutions institutionFinder, users userFinder, pol *policy.Policy, notify notifier, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if pol == nil {
		pol = policy.New()
	}
	return &TaskService{
		tasks:        tasks,
		events:       events,
		institutions: institutions,
		users:        users,
		policy:       pol,
		notifier:     notify,
		cache:        cache,
		validator:    validate,
		logger:       logger,
	}
}

func (s *TaskService) lookups() *lookups {
	return newLookups(s.institutions, s.events, s.users, nil)
}

// List returns enriched tasks. Callers with own scope only ever see tasks
// assigned to them, whatever assigned_to filter they pass.
func (s *TaskService) List(ctx context.Context, actor Actor, filter models.TaskFilter) ([]models.TaskDetail, error) {
	switch s.policy.ScopeFor(actor.Role, policy.ResourceTasks, policy.ActionRead) {
	case policy.ScopeAll:
	case policy.ScopeOwn:
		self := actor.ID
		filter.AssignedTo = &self
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list tasks")
	}

	l := s.lookups()
	out := make([]models.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		detail, err := l.taskDetail(ctx, task)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

// Get returns one enriched task visible to actor.
func (s *TaskService) Get(ctx context.Context, actor Actor, id string) (*models.TaskDetail, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccess(actor.Role, policy.ResourceTasks, policy.ActionRead, policy.Context{Subject: actor.ID, Owner: task.AssignedTo}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "access denied")
	}
	detail, err := s.lookups().taskDetail(ctx, *task)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create stores a task and notifies its assignee.
func (s *TaskService) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	l := s.lookups()
	event, err := l.event(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	assignee, err := l.user(ctx, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
	}

	task := &models.Task{
		EventID:         req.EventID,
		Type:            req.Type,
		AssignedTo:      req.AssignedTo,
		DueDate:         req.DueDate.Ptr(),
		Status:          req.Status,
		DeliverableLink: req.DeliverableLink,
		Comments:        req.Comments,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusAssigned
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, appErrors.Store(err, "failed to create task")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)

	if err := s.notifyAssigned(ctx, task, event); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the fields of patch that actor's role may change. Fields
// outside the allow-list are dropped before validation, so their content can
// never reject the request.
func (s *TaskService) Update(ctx context.Context, actor Actor, id string, patch models.TaskPatch) (*models.TaskUpdateResult, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccess(actor.Role, policy.ResourceTasks, policy.ActionUpdate, policy.Context{Subject: actor.ID, Owner: current.AssignedTo}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "access denied")
	}
	allowed := AllowedTaskFields(actor.Role)
	permitted := FilterTaskPatch(patch, allowed)
	if err := s.validator.Struct(permitted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	updated := *current
	applied := ApplyTaskPatch(&updated, permitted, allowed)
	if present := PresentTaskFields(patch); len(present) != len(applied) {
		s.logger.Debug("task patch fields dropped",
			zap.String("task_id", id),
			zap.String("role", string(actor.Role)),
			zap.Any("present", present),
			zap.Any("applied", applied),
		)
	}

	l := s.lookups()
	if updated.EventID != current.EventID {
		event, err := l.event(ctx, updated.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
	}
	if updated.AssignedTo != current.AssignedTo {
		assignee, err := l.user(ctx, updated.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
		}
	}

	if err := s.tasks.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Store(err, "failed to update task")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)

	if current.Status != models.TaskStatusCompleted && updated.Status == models.TaskStatusCompleted {
		if err := s.notifyCompleted(ctx, l, actor, &updated); err != nil {
			return nil, err
		}
	}
	if updated.AssignedTo != current.AssignedTo {
		event, err := l.event(ctx, updated.EventID)
		if err != nil {
			return nil, err
		}
		if err := s.notifyAssigned(ctx, &updated, event); err != nil {
			return nil, err
		}
	}

	return &models.TaskUpdateResult{Task: updated, AppliedFields: applied}, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return appErrors.Store(err, "failed to delete task")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)
	return nil
}

func (s *TaskService) load(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Store(err, "failed to load task")
	}
	return task, nil
}

func (s *TaskService) notifyAssigned(ctx context.Context, task *models.Task, event *models.Event) error {
	title := "Unknown Event"
	if event != nil {
		title = event.Title
	}
	_, err := s.notifier.Emit(ctx, task.AssignedTo,
		"New Task Assigned",
		fmt.Sprintf("You have been assigned a %s task for %s", task.Type, title),
		models.NotificationTaskAssigned,
		task.ID,
	)
	return err
}

// notifyCompleted tells the creator of the parent event. Tasks whose event
// is gone have nobody to notify.
func (s *TaskService) notifyCompleted(ctx context.Context, l *lookups, actor Actor, task *models.Task) error {
	event, err := l.event(ctx, task.EventID)
	if err != nil {
		return err
	}
	if event == nil || event.CreatedBy == "" {
		return nil
	}
	who := actor.Name
	if who == "" {
		who = "Team member"
	}
	_, err = s.notifier.Emit(ctx, event.CreatedBy,
		"Task Completed",
		fmt.Sprintf("%s completed %s task for %s", who, task.Type, event.Title),
		models.NotificationTaskCompleted,
		task.ID,
	)
	return err
}

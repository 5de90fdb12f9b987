package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type eventTaskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
}

type eventAllocationRepository interface {
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
}

// EventService implements event workflows including the cascading delete.
type EventService struct {
	events       eventRepository
	institutions institutionFinder
	tasks        eventTaskRepository
	allocations  eventAllocationRepository
	notifier     notifier
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(events eventRepository, institutions institutionFinder, tasks eventTaskRepository, allocations eventAllocationRepository, notify notifier, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{
		events:       events,
		institutions: institutions,
		tasks:        tasks,
		allocations:  allocations,
		notifier:     notify,
		cache:        cache,
		validator:    validate,
		logger:       logger,
	}
}

// List returns events with their institution names.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.EventDetail, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list events")
	}

	l := newLookups(s.institutions, nil, nil, nil)
	out := make([]models.EventDetail, 0, len(events))
	for _, event := range events {
		detail, err := l.eventDetail(ctx, event)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

// Get returns one event with its institution name.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	detail, err := newLookups(s.institutions, nil, nil, nil).eventDetail(ctx, *event)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create stores a new event owned by actor.
func (s *EventService) Create(ctx context.Context, actor Actor, req models.CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if err := s.requireInstitution(ctx, req.InstitutionID); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:              req.Title,
		InstitutionID:      req.InstitutionID,
		Department:         req.Department,
		EventDateStart:     req.EventDateStart.Time,
		EventDateEnd:       req.EventDateEnd.Ptr(),
		Venue:              req.Venue,
		Description:        req.Description,
		EventType:          req.EventType,
		ExpectedAudience:   req.ExpectedAudience,
		ChiefGuests:        req.ChiefGuests,
		Requirements:       models.NormalizeRequirements(req.Requirements),
		Comments:           req.Comments,
		Priority:           req.Priority,
		DeliverableDueDate: req.DeliverableDueDate.Ptr(),
		Status:             req.Status,
		CreatedBy:          actor.ID,
	}
	if event.Priority == "" {
		event.Priority = models.PriorityNormal
	}
	if event.Status == "" {
		event.Status = models.EventStatusCreated
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Store(err, "failed to create event")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("actor_id", actor.ID))
	return event, nil
}

// Update applies the present fields of req. A status change notifies every
// distinct assignee of the event's tasks.
func (s *EventService) Update(ctx context.Context, id string, req models.UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	applyEventUpdate(&updated, req)
	if updated.InstitutionID != current.InstitutionID {
		if err := s.requireInstitution(ctx, updated.InstitutionID); err != nil {
			return nil, err
		}
	}

	if err := s.events.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Store(err, "failed to update event")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)

	if updated.Status != current.Status {
		if err := s.notifyStatusChanged(ctx, &updated); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// Delete removes the event after its tasks and allocations. The steps are
// independent statements; a failure part way leaves earlier steps applied.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	removedTasks, err := s.tasks.DeleteByEvent(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete event tasks")
	}
	removedAllocations, err := s.allocations.DeleteByEvent(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete event allocations")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Store(err, "failed to delete event")
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)

	s.logger.Info("event deleted",
		zap.String("event_id", id),
		zap.Int64("tasks_removed", removedTasks),
		zap.Int64("allocations_removed", removedAllocations),
	)
	return nil
}

func (s *EventService) load(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Store(err, "failed to load event")
	}
	return event, nil
}

func (s *EventService) requireInstitution(ctx context.Context, id string) error {
	inst, err := newLookups(s.institutions, nil, nil, nil).institution(ctx, id)
	if err != nil {
		return err
	}
	if inst == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "institution not found")
	}
	return nil
}

func (s *EventService) notifyStatusChanged(ctx context.Context, event *models.Event) error {
	eventID := event.ID
	tasks, err := s.tasks.List(ctx, models.TaskFilter{EventID: &eventID})
	if err != nil {
		return appErrors.Store(err, "failed to list event tasks")
	}

	seen := map[string]struct{}{}
	for _, task := range tasks {
		if _, ok := seen[task.AssignedTo]; ok {
			continue
		}
		seen[task.AssignedTo] = struct{}{}
		if _, err := s.notifier.Emit(ctx, task.AssignedTo,
			"Event Status Updated",
			fmt.Sprintf("%s is now %s", event.Title, statusLabel(event.Status)),
			models.NotificationEventStatusChanged,
			event.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

func applyEventUpdate(event *models.Event, req models.UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.InstitutionID != nil {
		event.InstitutionID = *req.InstitutionID
	}
	if req.Department != nil {
		event.Department = req.Department
	}
	if req.EventDateStart != nil {
		event.EventDateStart = req.EventDateStart.Time
	}
	if req.EventDateEnd.Set {
		event.EventDateEnd = req.EventDateEnd.Time
	}
	if req.Venue != nil {
		event.Venue = req.Venue
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.EventType != nil {
		event.EventType = req.EventType
	}
	if req.ExpectedAudience != nil {
		event.ExpectedAudience = req.ExpectedAudience
	}
	if req.ChiefGuests != nil {
		event.ChiefGuests = req.ChiefGuests
	}
	if req.Requirements != nil {
		event.Requirements = models.NormalizeRequirements(req.Requirements)
	}
	if req.Comments != nil {
		event.Comments = req.Comments
	}
	if req.Priority != nil {
		event.Priority = *req.Priority
	}
	if req.DeliverableDueDate.Set {
		event.DeliverableDueDate = req.DeliverableDueDate.Time
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
}

func statusLabel(status models.EventStatus) string {
	switch status {
	case models.EventStatusCreated:
		return "created"
	case models.EventStatusScheduled:
		return "scheduled"
	case models.EventStatusShootCompleted:
		return "shoot completed"
	case models.EventStatusDeliveryInProgress:
		return "in delivery"
	case models.EventStatusClosed:
		return "closed"
	default:
		return string(status)
	}
}

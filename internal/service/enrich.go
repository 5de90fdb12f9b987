package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

type institutionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Institution, error)
}

type eventFinder interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type equipmentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
}

// lookups resolves related records for enrichment. Results, including
// misses, are memoized for the lifetime of one call.
type lookups struct {
	institutions institutionFinder
	events       eventFinder
	users        userFinder
	equipment    equipmentFinder

	institutionCache map[string]*models.Institution
	eventCache       map[string]*models.Event
	userCache        map[string]*models.User
	equipmentCache   map[string]*models.Equipment
}

func newLookups(institutions institutionFinder, events eventFinder, users userFinder, equipment equipmentFinder) *lookups {
	return &lookups{
		institutions:     institutions,
		events:           events,
		users:            users,
		equipment:        equipment,
		institutionCache: map[string]*models.Institution{},
		eventCache:       map[string]*models.Event{},
		userCache:        map[string]*models.User{},
		equipmentCache:   map[string]*models.Equipment{},
	}
}

func (l *lookups) institution(ctx context.Context, id string) (*models.Institution, error) {
	if v, ok := l.institutionCache[id]; ok {
		return v, nil
	}
	v, err := l.institutions.FindByID(ctx, id)
	if err = missingAsNil(err); err != nil {
		return nil, appErrors.Store(err, "failed to load institution")
	}
	l.institutionCache[id] = v
	return v, nil
}

func (l *lookups) event(ctx context.Context, id string) (*models.Event, error) {
	if v, ok := l.eventCache[id]; ok {
		return v, nil
	}
	v, err := l.events.FindByID(ctx, id)
	if err = missingAsNil(err); err != nil {
		return nil, appErrors.Store(err, "failed to load event")
	}
	l.eventCache[id] = v
	return v, nil
}

func (l *lookups) user(ctx context.Context, id string) (*models.User, error) {
	if v, ok := l.userCache[id]; ok {
		return v, nil
	}
	v, err := l.users.FindByID(ctx, id)
	if err = missingAsNil(err); err != nil {
		return nil, appErrors.Store(err, "failed to load user")
	}
	l.userCache[id] = v
	return v, nil
}

func (l *lookups) equipmentItem(ctx context.Context, id string) (*models.Equipment, error) {
	if v, ok := l.equipmentCache[id]; ok {
		return v, nil
	}
	v, err := l.equipment.FindByID(ctx, id)
	if err = missingAsNil(err); err != nil {
		return nil, appErrors.Store(err, "failed to load equipment")
	}
	l.equipmentCache[id] = v
	return v, nil
}

func (l *lookups) institutionName(ctx context.Context, id string) (*string, error) {
	inst, err := l.institution(ctx, id)
	if err != nil || inst == nil {
		return nil, err
	}
	return strPtr(inst.Name), nil
}

func (l *lookups) eventDetail(ctx context.Context, event models.Event) (models.EventDetail, error) {
	name, err := l.institutionName(ctx, event.InstitutionID)
	if err != nil {
		return models.EventDetail{}, err
	}
	return models.EventDetail{Event: event, InstitutionName: name}, nil
}

func (l *lookups) taskDetail(ctx context.Context, task models.Task) (models.TaskDetail, error) {
	detail := models.TaskDetail{Task: task}

	event, err := l.event(ctx, task.EventID)
	if err != nil {
		return detail, err
	}
	if event != nil {
		detail.EventTitle = strPtr(event.Title)
		start := event.EventDateStart
		detail.EventDate = &start
		if detail.InstitutionName, err = l.institutionName(ctx, event.InstitutionID); err != nil {
			return detail, err
		}
	}

	user, err := l.user(ctx, task.AssignedTo)
	if err != nil {
		return detail, err
	}
	if user != nil {
		detail.AssignedToName = strPtr(user.Name)
	}
	return detail, nil
}

func (l *lookups) allocationDetail(ctx context.Context, alloc models.EquipmentAllocation) (models.AllocationDetail, error) {
	detail := models.AllocationDetail{EquipmentAllocation: alloc}

	item, err := l.equipmentItem(ctx, alloc.EquipmentID)
	if err != nil {
		return detail, err
	}
	if item != nil {
		detail.EquipmentName = strPtr(item.Name)
	}

	event, err := l.event(ctx, alloc.EventID)
	if err != nil {
		return detail, err
	}
	if event != nil {
		detail.EventTitle = strPtr(event.Title)
	}
	return detail, nil
}

func missingAsNil(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func strPtr(s string) *string {
	return &s
}

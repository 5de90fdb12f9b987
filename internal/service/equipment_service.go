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

type equipmentRepository interface {
	List(ctx context.Context) ([]models.Equipment, error)
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
	Create(ctx context.Context, item *models.Equipment) error
	Update(ctx context.Context, item *models.Equipment) error
	Delete(ctx context.Context, id string) error
}

type allocationRepository interface {
	List(ctx context.Context, filter models.AllocationFilter) ([]models.EquipmentAllocation, error)
	Create(ctx context.Context, item *models.EquipmentAllocation) error
	CountByEquipment(ctx context.Context, equipmentID string) (int, error)
}

// EquipmentService manages gear and its allocation to events.
type EquipmentService struct {
	equipment   equipmentRepository
	allocations allocationRepository
	events      eventFinder
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEquipmentService constructs the service.
func NewEquipmentService(equipment equipmentRepository, allocations allocationRepository, events eventFinder, validate *validator.Validate, logger *zap.Logger) *EquipmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EquipmentService{equipment: equipment, allocations: allocations, events: events, validator: validate, logger: logger}
}

// List returns all equipment.
func (s *EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	items, err := s.equipment.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list equipment")
	}
	return items, nil
}

// Get returns equipment by id.
func (s *EquipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	item, err := s.equipment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Store(err, "failed to load equipment")
	}
	return item, nil
}

// Create registers new equipment, available unless stated otherwise.
func (s *EquipmentService) Create(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid equipment payload")
	}
	item := &models.Equipment{Name: req.Name, Code: req.Code, Status: req.Status, Notes: req.Notes}
	if item.Status == "" {
		item.Status = models.EquipmentAvailable
	}
	if err := s.equipment.Create(ctx, item); err != nil {
		return nil, appErrors.Store(err, "failed to create equipment")
	}
	return item, nil
}

// Update applies the present fields of req.
func (s *EquipmentService) Update(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid equipment payload")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Code != nil {
		item.Code = req.Code
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Notes != nil {
		item.Notes = req.Notes
	}
	if err := s.equipment.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Store(err, "failed to update equipment")
	}
	return item, nil
}

// Delete removes equipment that no allocation references.
func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	count, err := s.allocations.CountByEquipment(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to count equipment allocations")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot delete equipment: it is allocated to %d event(s)", count))
	}
	if err := s.equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return appErrors.Store(err, "failed to delete equipment")
	}
	return nil
}

// ListAllocations returns allocations enriched with equipment and event names.
func (s *EquipmentService) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, error) {
	items, err := s.allocations.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list allocations")
	}
	l := newLookups(nil, s.events, nil, s.equipment)
	out := make([]models.AllocationDetail, 0, len(items))
	for _, item := range items {
		detail, err := l.allocationDetail(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

// Allocate books equipment for an event. Overlapping bookings are accepted.
func (s *EquipmentService) Allocate(ctx context.Context, actor Actor, req models.CreateAllocationRequest) (*models.EquipmentAllocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	l := newLookups(nil, s.events, nil, s.equipment)
	event, err := l.event(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	item, err := l.equipmentItem(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
	}

	alloc := &models.EquipmentAllocation{
		EventID:     req.EventID,
		EquipmentID: req.EquipmentID,
		Notes:       req.Notes,
		AllocatedBy: actor.ID,
	}
	if err := s.allocations.Create(ctx, alloc); err != nil {
		return nil, appErrors.Store(err, "failed to create allocation")
	}
	s.logger.Info("equipment allocated",
		zap.String("allocation_id", alloc.ID),
		zap.String("equipment_id", alloc.EquipmentID),
		zap.String("event_id", alloc.EventID),
	)
	return alloc, nil
}

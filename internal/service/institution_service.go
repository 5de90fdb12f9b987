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

type institutionRepository interface {
	List(ctx context.Context) ([]models.Institution, error)
	FindByID(ctx context.Context, id string) (*models.Institution, error)
	Create(ctx context.Context, inst *models.Institution) error
	Update(ctx context.Context, inst *models.Institution) error
	Delete(ctx context.Context, id string) error
}

type eventCounter interface {
	Count(ctx context.Context, filter models.EventCountFilter) (int, error)
}

// InstitutionService manages client institutions.
type InstitutionService struct {
	repo      institutionRepository
	events    eventCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstitutionService constructs the service.
func NewInstitutionService(repo institutionRepository, events eventCounter, validate *validator.Validate, logger *zap.Logger) *InstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InstitutionService{repo: repo, events: events, validator: validate, logger: logger}
}

// List returns all institutions.
func (s *InstitutionService) List(ctx context.Context) ([]models.Institution, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list institutions")
	}
	return items, nil
}

// Get returns an institution by id.
func (s *InstitutionService) Get(ctx context.Context, id string) (*models.Institution, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Store(err, "failed to load institution")
	}
	return inst, nil
}

// Create stores a new institution. is_active defaults to true.
func (s *InstitutionService) Create(ctx context.Context, req models.CreateInstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institution payload")
	}
	inst := &models.Institution{
		Name:      req.Name,
		ShortCode: req.ShortCode,
		Type:      req.Type,
		IsActive:  true,
	}
	if req.IsActive != nil {
		inst.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, inst); err != nil {
		return nil, appErrors.Store(err, "failed to create institution")
	}
	return inst, nil
}

// Update applies the present fields of req.
func (s *InstitutionService) Update(ctx context.Context, id string, req models.UpdateInstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institution payload")
	}
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		inst.Name = *req.Name
	}
	if req.ShortCode != nil {
		inst.ShortCode = req.ShortCode
	}
	if req.Type != nil {
		inst.Type = req.Type
	}
	if req.IsActive != nil {
		inst.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, inst); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Store(err, "failed to update institution")
	}
	return inst, nil
}

// Delete removes an institution that no event references.
func (s *InstitutionService) Delete(ctx context.Context, id string) error {
	count, err := s.events.Count(ctx, models.EventCountFilter{InstitutionID: &id})
	if err != nil {
		return appErrors.Store(err, "failed to count institution events")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot delete institution: %d event(s) are associated with it", count))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return appErrors.Store(err, "failed to delete institution")
	}
	s.logger.Info("institution deleted", zap.String("institution_id", id))
	return nil
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/service"
	"github.com/noah-isme/mediahub-api/pkg/response"
)

type equipmentService interface {
	List(ctx context.Context) ([]models.Equipment, error)
	Get(ctx context.Context, id string) (*models.Equipment, error)
	Create(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	Update(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	Delete(ctx context.Context, id string) error
	ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, error)
	Allocate(ctx context.Context, actor service.Actor, req models.CreateAllocationRequest) (*models.EquipmentAllocation, error)
}

// EquipmentHandler exposes equipment and allocation endpoints.
type EquipmentHandler struct {
	service equipmentService
}

// NewEquipmentHandler constructs the handler.
func NewEquipmentHandler(svc equipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: svc}
}

// List godoc
// @Summary List equipment
// @Tags Equipment
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /equipment [get]
func (h *EquipmentHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get equipment
// @Tags Equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /equipment/{id} [get]
func (h *EquipmentHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Create godoc
// @Summary Register equipment
// @Tags Equipment
// @Accept json
// @Produce json
// @Param payload body models.CreateEquipmentRequest true "Equipment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /equipment [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req models.CreateEquipmentRequest
	if !bindJSON(c, &req, "invalid equipment payload") {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update equipment
// @Tags Equipment
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID"
// @Param payload body models.UpdateEquipmentRequest true "Equipment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /equipment/{id} [put]
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req models.UpdateEquipmentRequest
	if !bindJSON(c, &req, "invalid equipment payload") {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Delete godoc
// @Summary Delete equipment
// @Description Fails with 409 while allocations reference the equipment
// @Tags Equipment
// @Param id path string true "Equipment ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAllocations godoc
// @Summary List equipment allocations
// @Tags Equipment
// @Produce json
// @Param event_id query string false "Event filter"
// @Success 200 {object} response.Envelope
// @Router /equipment-allocations [get]
func (h *EquipmentHandler) ListAllocations(c *gin.Context) {
	items, err := h.service.ListAllocations(c.Request.Context(), models.AllocationFilter{EventID: queryPtr(c, "event_id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Allocate godoc
// @Summary Allocate equipment to an event
// @Tags Equipment
// @Accept json
// @Produce json
// @Param payload body models.CreateAllocationRequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /equipment-allocations [post]
func (h *EquipmentHandler) Allocate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateAllocationRequest
	if !bindJSON(c, &req, "invalid allocation payload") {
		return
	}
	alloc, err := h.service.Allocate(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alloc)
}

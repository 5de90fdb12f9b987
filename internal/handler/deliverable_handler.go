package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/service"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
	"github.com/noah-isme/mediahub-api/pkg/response"
)

type deliverableService interface {
	ListPublic(ctx context.Context, filter models.DeliverableFilter) ([]models.PublicDeliverable, error)
	Export(ctx context.Context, filter models.DeliverableFilter, format string) (*service.ExportFile, error)
}

// DeliverableHandler serves the public deliverables listing.
type DeliverableHandler struct {
	service deliverableService
}

// NewDeliverableHandler constructs the handler.
func NewDeliverableHandler(svc deliverableService) *DeliverableHandler {
	return &DeliverableHandler{service: svc}
}

// List godoc
// @Summary Public deliverables
// @Description Completed tasks with a deliverable link, newest first
// @Tags Deliverables
// @Produce json
// @Param institution_id query string false "Institution filter"
// @Param task_type query string false "Task type filter"
// @Success 200 {object} response.Envelope
// @Router /deliveries/public [get]
func (h *DeliverableHandler) List(c *gin.Context) {
	filter, ok := deliverableFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Export godoc
// @Summary Export public deliverables
// @Tags Deliverables
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param institution_id query string false "Institution filter"
// @Param task_type query string false "Task type filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /deliveries/public/export [get]
func (h *DeliverableHandler) Export(c *gin.Context) {
	filter, ok := deliverableFilter(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), filter, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func deliverableFilter(c *gin.Context) (models.DeliverableFilter, bool) {
	filter := models.DeliverableFilter{InstitutionID: queryPtr(c, "institution_id")}
	if v := queryPtr(c, "task_type"); v != nil {
		taskType := models.TaskType(*v)
		if !taskType.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task_type filter"))
			return filter, false
		}
		filter.TaskType = &taskType
	}
	return filter, true
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
	"github.com/noah-isme/mediahub-api/pkg/export"
)

const unknownInstitution = "Unknown"

// Export formats for the public deliverables listing.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type deliverableTaskSource interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DeliverableService builds the public listing of completed deliverables.
type DeliverableService struct {
	tasks        deliverableTaskSource
	events       eventFinder
	institutions institutionFinder
	csv          datasetRenderer
	pdf          datasetRenderer
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewDeliverableService constructs the service.
func NewDeliverableService(tasks deliverableTaskSource, events eventFinder, institutions institutionFinder, metrics *MetricsService, logger *zap.Logger) *DeliverableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliverableService{
		tasks:        tasks,
		events:       events,
		institutions: institutions,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// ListPublic returns completed tasks carrying a deliverable link, newest
// first. Tasks whose event no longer exists are left out; a missing
// institution is reported as "Unknown". CompletedAt is the task creation
// time since completion is not timestamped.
func (s *DeliverableService) ListPublic(ctx context.Context, filter models.DeliverableFilter) ([]models.PublicDeliverable, error) {
	completed := models.TaskStatusCompleted
	tasks, err := s.tasks.List(ctx, models.TaskFilter{Status: &completed, HasDeliverable: true})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list deliverables")
	}

	l := newLookups(s.institutions, s.events, nil, nil)
	out := make([]models.PublicDeliverable, 0, len(tasks))
	for _, task := range tasks {
		if task.DeliverableLink == nil || *task.DeliverableLink == "" {
			continue
		}
		if filter.TaskType != nil && task.Type != *filter.TaskType {
			continue
		}
		event, err := l.event(ctx, task.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			continue
		}
		if filter.InstitutionID != nil && event.InstitutionID != *filter.InstitutionID {
			continue
		}

		institution := unknownInstitution
		if name, err := l.institutionName(ctx, event.InstitutionID); err != nil {
			return nil, err
		} else if name != nil {
			institution = *name
		}

		out = append(out, models.PublicDeliverable{
			ID:              task.ID,
			EventTitle:      event.Title,
			InstitutionName: institution,
			EventDate:       event.EventDateStart,
			TaskType:        task.Type,
			DeliverableLink: *task.DeliverableLink,
			Priority:        event.Priority,
			CompletedAt:     task.CreatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

// Export renders the public listing as CSV or PDF.
func (s *DeliverableService) Export(ctx context.Context, filter models.DeliverableFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}

	var (
		renderer    datasetRenderer
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		renderer, contentType = s.csv, "text/csv"
	case ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	items, err := s.ListPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(deliverableDataset(items))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.ExportRendered(format)

	return &ExportFile{
		Filename:    fmt.Sprintf("deliverables-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func deliverableDataset(items []models.PublicDeliverable) export.Dataset {
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"event":        item.EventTitle,
			"institution":  item.InstitutionName,
			"event_date":   item.EventDate.UTC().Format("2006-01-02"),
			"type":         string(item.TaskType),
			"priority":     string(item.Priority),
			"link":         item.DeliverableLink,
			"completed_at": item.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{
		Title: "Public Deliverables",
		Columns: []export.Column{
			{Key: "event", Label: "Event", Width: 3},
			{Key: "institution", Label: "Institution", Width: 3},
			{Key: "event_date", Label: "Event Date", Width: 1.5},
			{Key: "type", Label: "Type", Width: 1},
			{Key: "priority", Label: "Priority", Width: 1},
			{Key: "link", Label: "Link", Width: 4},
			{Key: "completed_at", Label: "Completed", Width: 2},
		},
		Rows: rows,
	}
}

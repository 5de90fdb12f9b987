package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

const (
	dashboardCacheKey     = "dashboard:stats"
	dashboardCachePattern = "dashboard:*"
)

type dashboardEventCounter interface {
	Count(ctx context.Context, filter models.EventCountFilter) (int, error)
}

type dashboardTaskCounter interface {
	Count(ctx context.Context, filter models.TaskCountFilter) (int, error)
}

// DashboardService aggregates production counters.
type DashboardService struct {
	events   dashboardEventCounter
	tasks    dashboardTaskCounter
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(events dashboardEventCounter, tasks dashboardTaskCounter, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{events: events, tasks: tasks, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// Stats returns the dashboard counters and whether they came from cache.
// pending_deliveries sums open tasks and open events without deduplication.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, true, nil
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	closed := models.EventStatusClosed
	completed := models.TaskStatusCompleted

	var stats models.DashboardStats
	counts := []struct {
		dst   *int
		count func() (int, error)
	}{
		{&stats.UpcomingEvents, func() (int, error) {
			return s.events.Count(ctx, models.EventCountFilter{StartFrom: &now})
		}},
		{&stats.ClosedThisMonth, func() (int, error) {
			return s.events.Count(ctx, models.EventCountFilter{Status: &closed, CreatedFrom: &monthStart})
		}},
		{&stats.OverdueTasks, func() (int, error) {
			return s.tasks.Count(ctx, models.TaskCountFilter{StatusNot: &completed, DueBefore: &now})
		}},
		{&stats.TotalEvents, func() (int, error) {
			return s.events.Count(ctx, models.EventCountFilter{})
		}},
		{&stats.TotalTasks, func() (int, error) {
			return s.tasks.Count(ctx, models.TaskCountFilter{})
		}},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, false, appErrors.Store(err, "failed to compute dashboard stats")
		}
		*c.dst = n
	}

	openTasks, err := s.tasks.Count(ctx, models.TaskCountFilter{StatusNot: &completed})
	if err != nil {
		return nil, false, appErrors.Store(err, "failed to compute dashboard stats")
	}
	openEvents, err := s.events.Count(ctx, models.EventCountFilter{StatusNot: &closed})
	if err != nil {
		return nil, false, appErrors.Store(err, "failed to compute dashboard stats")
	}
	stats.PendingDeliveries = openTasks + openEvents
	stats.GeneratedAt = now

	s.cache.Set(ctx, dashboardCacheKey, stats, s.cacheTTL)
	return &stats, false, nil
}

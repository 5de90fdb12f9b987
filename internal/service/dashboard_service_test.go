package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

type memCache struct {
	items   map[string][]byte
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.deletes = append(c.deletes, pattern)
	for key := range c.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.items, key)
		}
	}
	return nil
}

func TestDashboardServiceStats(t *testing.T) {
	svc := newServices()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.dashboard.now = func() time.Time { return now }
	inst := svc.seedInstitution("City Hospital")

	upcoming := svc.seedEvent("Future Fest", inst.ID, "user-x", now.Add(48*time.Hour))
	past := svc.seedEvent("Past Gala", inst.ID, "user-x", now.Add(-48*time.Hour))
	closed := svc.seedEvent("Closed Camp", inst.ID, "user-x", now.Add(-72*time.Hour))
	svc.store.events[closed.ID].Status = models.EventStatusClosed
	oldClosed := svc.seedEvent("Old Closed", inst.ID, "user-x", now.Add(-900*time.Hour))
	svc.store.events[oldClosed.ID].Status = models.EventStatusClosed
	svc.store.events[oldClosed.ID].CreatedAt = time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	overdue := svc.seedTask(past.ID, "user-a", models.TaskTypePhoto, models.TaskStatusInProgress, "")
	svc.store.tasks[overdue.ID].DueDate = ptr(now.Add(-time.Hour))
	later := svc.seedTask(upcoming.ID, "user-a", models.TaskTypeVideo, models.TaskStatusAssigned, "")
	svc.store.tasks[later.ID].DueDate = ptr(now.Add(time.Hour))
	svc.seedTask(upcoming.ID, "user-b", models.TaskTypeEditing, models.TaskStatusAssigned, "")
	done := svc.seedTask(past.ID, "user-b", models.TaskTypePhoto, models.TaskStatusCompleted, "https://x")
	svc.store.tasks[done.ID].DueDate = ptr(now.Add(-time.Hour))

	stats, hit, err := svc.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Equal(t, 3+2, stats.PendingDeliveries)
	assert.Equal(t, 1, stats.ClosedThisMonth)
	assert.Equal(t, 1, stats.OverdueTasks)
	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, now, stats.GeneratedAt)
}

func TestDashboardServicePendingCountsEventAndItsTask(t *testing.T) {
	svc := newServices()
	inst := svc.seedInstitution("City Hospital")
	event := svc.seedEvent("Solo", inst.ID, "user-x", time.Now())
	svc.seedTask(event.ID, "user-a", models.TaskTypePhoto, models.TaskStatusAssigned, "")

	stats, _, err := svc.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PendingDeliveries)
}

func TestDashboardServiceUsesCache(t *testing.T) {
	store := newMemStore()
	backend := newMemCache()
	cache := NewCacheService(backend, nil, time.Minute, nil, true)
	dashboard := NewDashboardService(memEvents{store}, memTasks{store}, cache, time.Minute, nil)
	tasks := NewTaskService(memTasks{store}, memEvents{store}, memInstitutions{store}, memUsers{store}, nil, NewNotificationService(memNotifications{store}, nil, nil), cache, nil, nil)
	ctx := context.Background()

	first, hit, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, first.TotalEvents)

	_, hit, err = dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, hit)

	event := &models.Event{Title: "New", InstitutionID: "inst-1", EventDateStart: time.Now(), Status: models.EventStatusCreated, Priority: models.PriorityNormal}
	require.NoError(t, memEvents{store}.Create(ctx, event))
	user := &models.User{Name: "Vik", Email: "vik@example.com", Role: models.RoleTeamMember}
	require.NoError(t, memUsers{store}.Create(ctx, user))

	_, err = tasks.Create(ctx, models.CreateTaskRequest{EventID: event.ID, Type: models.TaskTypePhoto, AssignedTo: user.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{dashboardCachePattern}, backend.deletes)

	fresh, hit, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, fresh.TotalTasks)
}

func TestDashboardServiceStoreFailure(t *testing.T) {
	svc := newServices()
	svc.store.failWith = errors.New("connection reset")

	_, _, err := svc.dashboard.Stats(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
}

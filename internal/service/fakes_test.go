package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/repository"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories.
type memStore struct {
	seq           int
	clock         time.Time
	users         map[string]*models.User
	institutions  map[string]*models.Institution
	events        map[string]*models.Event
	tasks         map[string]*models.Task
	equipment     map[string]*models.Equipment
	allocations   map[string]*models.EquipmentAllocation
	notifications map[string]*models.Notification
	failWith      error
	notifyErr     error
}

func newMemStore() *memStore {
	return &memStore{
		clock:         time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		users:         map[string]*models.User{},
		institutions:  map[string]*models.Institution{},
		events:        map[string]*models.Event{},
		tasks:         map[string]*models.Task{},
		equipment:     map[string]*models.Equipment{},
		allocations:   map[string]*models.EquipmentAllocation{},
		notifications: map[string]*models.Notification{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// tick returns a strictly increasing creation time.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

type memUsers struct{ *memStore }

func (r memUsers) List(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []models.User{}
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return repository.ErrDuplicate
	}
	user.ID = r.nextID("user")
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = r.tick()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r memUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type memInstitutions struct{ *memStore }

func (r memInstitutions) List(context.Context) ([]models.Institution, error) {
	out := []models.Institution{}
	for _, i := range r.institutions {
		out = append(out, *i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memInstitutions) FindByID(_ context.Context, id string) (*models.Institution, error) {
	i, ok := r.institutions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *i
	return &cp, nil
}

func (r memInstitutions) Create(_ context.Context, inst *models.Institution) error {
	inst.ID = r.nextID("inst")
	inst.CreatedAt = r.tick()
	cp := *inst
	r.institutions[inst.ID] = &cp
	return nil
}

func (r memInstitutions) Update(_ context.Context, inst *models.Institution) error {
	if _, ok := r.institutions[inst.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *inst
	r.institutions[inst.ID] = &cp
	return nil
}

func (r memInstitutions) Delete(_ context.Context, id string) error {
	if _, ok := r.institutions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.institutions, id)
	return nil
}

type memEvents struct{ *memStore }

func (r memEvents) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range r.events {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.InstitutionID != nil && e.InstitutionID != *filter.InstitutionID {
			continue
		}
		if filter.Priority != nil && e.Priority != *filter.Priority {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDateStart.After(out[j].EventDateStart) })
	return out, nil
}

func (r memEvents) Count(_ context.Context, filter models.EventCountFilter) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	n := 0
	for _, e := range r.events {
		switch {
		case filter.Status != nil && e.Status != *filter.Status:
		case filter.StatusNot != nil && e.Status == *filter.StatusNot:
		case filter.StartFrom != nil && e.EventDateStart.Before(*filter.StartFrom):
		case filter.CreatedFrom != nil && e.CreatedAt.Before(*filter.CreatedFrom):
		case filter.InstitutionID != nil && e.InstitutionID != *filter.InstitutionID:
		default:
			n++
		}
	}
	return n, nil
}

func (r memEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (r memEvents) Create(_ context.Context, event *models.Event) error {
	event.ID = r.nextID("event")
	event.CreatedAt = r.tick()
	if event.Requirements == nil {
		event.Requirements = models.NormalizeRequirements(nil)
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r memEvents) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r memEvents) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

type memTasks struct{ *memStore }

func (r memTasks) List(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range r.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.EventID != nil && t.EventID != *filter.EventID {
			continue
		}
		if filter.HasDeliverable && (t.DeliverableLink == nil || *t.DeliverableLink == "") {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTasks) Count(_ context.Context, filter models.TaskCountFilter) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	n := 0
	for _, t := range r.tasks {
		switch {
		case filter.Status != nil && t.Status != *filter.Status:
		case filter.StatusNot != nil && t.Status == *filter.StatusNot:
		case filter.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*filter.DueBefore)):
		case filter.EventID != nil && t.EventID != *filter.EventID:
		default:
			n++
		}
	}
	return n, nil
}

func (r memTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (r memTasks) Create(_ context.Context, task *models.Task) error {
	task.ID = r.nextID("task")
	task.CreatedAt = r.tick()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r memTasks) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r memTasks) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r memTasks) DeleteByEvent(_ context.Context, eventID string) (int64, error) {
	var n int64
	for id, t := range r.tasks {
		if t.EventID == eventID {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

type memEquipment struct{ *memStore }

func (r memEquipment) List(context.Context) ([]models.Equipment, error) {
	out := []models.Equipment{}
	for _, e := range r.equipment {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memEquipment) FindByID(_ context.Context, id string) (*models.Equipment, error) {
	e, ok := r.equipment[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (r memEquipment) Create(_ context.Context, item *models.Equipment) error {
	item.ID = r.nextID("equip")
	item.CreatedAt = r.tick()
	cp := *item
	r.equipment[item.ID] = &cp
	return nil
}

func (r memEquipment) Update(_ context.Context, item *models.Equipment) error {
	if _, ok := r.equipment[item.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *item
	r.equipment[item.ID] = &cp
	return nil
}

func (r memEquipment) Delete(_ context.Context, id string) error {
	if _, ok := r.equipment[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.equipment, id)
	return nil
}

type memAllocations struct{ *memStore }

func (r memAllocations) List(_ context.Context, filter models.AllocationFilter) ([]models.EquipmentAllocation, error) {
	out := []models.EquipmentAllocation{}
	for _, a := range r.allocations {
		if filter.EventID != nil && a.EventID != *filter.EventID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memAllocations) Create(_ context.Context, item *models.EquipmentAllocation) error {
	item.ID = r.nextID("alloc")
	item.CreatedAt = r.tick()
	cp := *item
	r.allocations[item.ID] = &cp
	return nil
}

func (r memAllocations) CountByEquipment(_ context.Context, equipmentID string) (int, error) {
	n := 0
	for _, a := range r.allocations {
		if a.EquipmentID == equipmentID {
			n++
		}
	}
	return n, nil
}

func (r memAllocations) DeleteByEvent(_ context.Context, eventID string) (int64, error) {
	var n int64
	for id, a := range r.allocations {
		if a.EventID == eventID {
			delete(r.allocations, id)
			n++
		}
	}
	return n, nil
}

type memNotifications struct{ *memStore }

func (r memNotifications) Create(_ context.Context, n *models.Notification) error {
	if r.notifyErr != nil {
		return r.notifyErr
	}
	n.ID = r.nextID("notif")
	n.CreatedAt = r.tick()
	cp := *n
	r.notifications[n.ID] = &cp
	return nil
}

func (r memNotifications) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID string) (int, error) {
	n := 0
	for _, item := range r.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r memNotifications) MarkRead(_ context.Context, id, userID string) error {
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return sql.ErrNoRows
	}
	n.IsRead = true
	return nil
}

func (r memNotifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

// forUser returns the notifications addressed to userID in creation order.
func (m *memStore) forUser(userID string) []models.Notification {
	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// services wires every workflow service over one memStore.
type services struct {
	store         *memStore
	auth          *AuthService
	users         *UserService
	institutions  *InstitutionService
	events        *EventService
	tasks         *TaskService
	equipment     *EquipmentService
	notifications *NotificationService
	deliverables  *DeliverableService
	dashboard     *DashboardService
}

func newServices() *services {
	store := newMemStore()
	notify := NewNotificationService(memNotifications{store}, nil, nil)
	return &services{
		store:         store,
		auth:          NewAuthService(memUsers{store}, nil, nil, AuthConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "mediahub-test"}),
		users:         NewUserService(memUsers{store}, nil, nil),
		institutions:  NewInstitutionService(memInstitutions{store}, memEvents{store}, nil, nil),
		events:        NewEventService(memEvents{store}, memInstitutions{store}, memTasks{store}, memAllocations{store}, notify, nil, nil, nil),
		tasks:         NewTaskService(memTasks{store}, memEvents{store}, memInstitutions{store}, memUsers{store}, nil, notify, nil, nil, nil),
		equipment:     NewEquipmentService(memEquipment{store}, memAllocations{store}, memEvents{store}, nil, nil),
		notifications: notify,
		deliverables:  NewDeliverableService(memTasks{store}, memEvents{store}, memInstitutions{store}, nil, nil),
		dashboard:     NewDashboardService(memEvents{store}, memTasks{store}, nil, 0, nil),
	}
}

func (s *services) seedUser(name, email string, role models.UserRole) *models.User {
	hash, err := HashPassword("secret123")
	if err != nil {
		panic(err)
	}
	u := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := (memUsers{s.store}).Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *services) seedInstitution(name string) *models.Institution {
	inst := &models.Institution{Name: name, IsActive: true}
	_ = memInstitutions{s.store}.Create(context.Background(), inst)
	return inst
}

func (s *services) seedEvent(title, institutionID, createdBy string, start time.Time) *models.Event {
	e := &models.Event{
		Title:          title,
		InstitutionID:  institutionID,
		EventDateStart: start,
		Priority:       models.PriorityNormal,
		Status:         models.EventStatusCreated,
		CreatedBy:      createdBy,
	}
	_ = memEvents{s.store}.Create(context.Background(), e)
	return e
}

func (s *services) seedTask(eventID, assignee string, taskType models.TaskType, status models.TaskStatus, link string) *models.Task {
	t := &models.Task{EventID: eventID, Type: taskType, AssignedTo: assignee, Status: status}
	if link != "" {
		t.DeliverableLink = &link
	}
	_ = memTasks{s.store}.Create(context.Background(), t)
	return t
}

func actorOf(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Name: u.Name}
}

func ptr[T any](v T) *T {
	return &v
}

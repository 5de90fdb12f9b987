package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/policy"
	"github.com/noah-isme/mediahub-api/internal/repository"
	"github.com/noah-isme/mediahub-api/internal/service"
	"github.com/noah-isme/mediahub-api/pkg/config"
	"github.com/noah-isme/mediahub-api/pkg/database"
	"github.com/noah-isme/mediahub-api/pkg/logger"
)

const (
	adminEmail   = "admin@mediahub.local"
	demoPassword = "password123"
)

type seeder struct {
	users        *service.UserService
	institutions *service.InstitutionService
	events       *service.EventService
	tasks        *service.TaskService
	equipment    *service.EquipmentService
	logger       *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to apply schema", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
		logr.Info("demo data already present, skipping", zap.String("email", adminEmail))
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logr.Fatal("failed to check existing data", zap.Error(err))
	}

	validate := validator.New()
	institutionRepo := repository.NewInstitutionRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), nil, logr)

	s := &seeder{
		users:        service.NewUserService(userRepo, validate, logr),
		institutions: service.NewInstitutionService(institutionRepo, eventRepo, validate, logr),
		events:       service.NewEventService(eventRepo, institutionRepo, taskRepo, allocationRepo, notifications, nil, validate, logr),
		tasks:        service.NewTaskService(taskRepo, eventRepo, institutionRepo, userRepo, policy.New(), notifications, nil, validate, logr),
		equipment:    service.NewEquipmentService(repository.NewEquipmentRepository(db), allocationRepo, eventRepo, validate, logr),
		logger:       logr,
	}

	if err := s.run(ctx); err != nil {
		logr.Fatal("seeding failed", zap.Error(err))
	}
	logr.Info("demo data seeded", zap.String("admin", adminEmail), zap.String("password", demoPassword))
}

func (s *seeder) run(ctx context.Context) error {
	admin, err := s.user(ctx, "Asha Rao", adminEmail, models.RoleAdmin, nil)
	if err != nil {
		return err
	}
	head, err := s.user(ctx, "Meera Iyer", "head@mediahub.local", models.RoleMediaHead, nil)
	if err != nil {
		return err
	}
	photo := models.SpecializationPhoto
	photographer, err := s.user(ctx, "Vik Sharma", "vik@mediahub.local", models.RoleTeamMember, &photo)
	if err != nil {
		return err
	}
	video := models.SpecializationVideo
	videographer, err := s.user(ctx, "Nila Das", "nila@mediahub.local", models.RoleTeamMember, &video)
	if err != nil {
		return err
	}

	college := models.InstitutionCollege
	school := models.InstitutionSchool
	xaviers, err := s.institutions.Create(ctx, models.CreateInstitutionRequest{Name: "St. Xavier's College", ShortCode: strPtr("SXC"), Type: &college})
	if err != nil {
		return err
	}
	valley, err := s.institutions.Create(ctx, models.CreateInstitutionRequest{Name: "Green Valley School", ShortCode: strPtr("GVS"), Type: &school})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	actor := service.Actor{ID: head.ID, Role: head.Role, Name: head.Name}
	annual, err := s.events.Create(ctx, actor, models.CreateEventRequest{
		Title:          "Annual Day",
		InstitutionID:  xaviers.ID,
		EventDateStart: isoPtr(now.AddDate(0, 0, 7)),
		Venue:          strPtr("Main Auditorium"),
		Requirements:   []string{string(models.RequirementPhotos), string(models.RequirementHighlightVideo)},
		Priority:       models.PriorityVIP,
		Status:         models.EventStatusScheduled,
	})
	if err != nil {
		return err
	}
	sports, err := s.events.Create(ctx, service.Actor{ID: admin.ID, Role: admin.Role, Name: admin.Name}, models.CreateEventRequest{
		Title:          "Sports Meet",
		InstitutionID:  valley.ID,
		EventDateStart: isoPtr(now.AddDate(0, 0, -10)),
		Requirements:   []string{string(models.RequirementPhotos)},
		Status:         models.EventStatusDeliveryInProgress,
	})
	if err != nil {
		return err
	}

	tasks := []models.CreateTaskRequest{
		{EventID: annual.ID, Type: models.TaskTypePhoto, AssignedTo: photographer.ID, DueDate: isoPtr(now.AddDate(0, 0, 9))},
		{EventID: annual.ID, Type: models.TaskTypeVideo, AssignedTo: videographer.ID, DueDate: isoPtr(now.AddDate(0, 0, 14))},
		{EventID: sports.ID, Type: models.TaskTypePhoto, AssignedTo: photographer.ID, Status: models.TaskStatusCompleted,
			DeliverableLink: strPtr("https://drive.example.com/sports-meet-photos")},
		{EventID: sports.ID, Type: models.TaskTypeEditing, AssignedTo: videographer.ID, DueDate: isoPtr(now.AddDate(0, 0, -2)),
			Status: models.TaskStatusInProgress},
	}
	for _, req := range tasks {
		if _, err := s.tasks.Create(ctx, req); err != nil {
			return err
		}
	}

	kit := []models.CreateEquipmentRequest{
		{Name: "Canon EOS R6", Code: strPtr("CAM-01")},
		{Name: "Sony FX3", Code: strPtr("CAM-02")},
		{Name: "DJI Ronin RS3", Code: strPtr("GIM-01"), Status: models.EquipmentMaintenance},
	}
	for i, req := range kit {
		item, err := s.equipment.Create(ctx, req)
		if err != nil {
			return err
		}
		if i < 2 {
			if _, err := s.equipment.Allocate(ctx, actor, models.CreateAllocationRequest{EventID: annual.ID, EquipmentID: item.ID}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *seeder) user(ctx context.Context, name, email string, role models.UserRole, specialization *models.Specialization) (*models.User, error) {
	user, err := s.users.Create(ctx, models.RegisterRequest{
		Name:           name,
		Email:          email,
		Password:       demoPassword,
		Role:           role,
		Specialization: specialization,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("seeded user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

func strPtr(v string) *string { return &v }

func isoPtr(t time.Time) *models.ISOTime {
	v := models.NewISOTime(t)
	return &v
}

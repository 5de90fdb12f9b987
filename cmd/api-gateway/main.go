package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mediahub-api/api/swagger"
	"github.com/noah-isme/mediahub-api/internal/handler"
	"github.com/noah-isme/mediahub-api/internal/middleware"
	"github.com/noah-isme/mediahub-api/internal/policy"
	"github.com/noah-isme/mediahub-api/internal/repository"
	"github.com/noah-isme/mediahub-api/internal/service"
	"github.com/noah-isme/mediahub-api/pkg/cache"
	"github.com/noah-isme/mediahub-api/pkg/config"
	"github.com/noah-isme/mediahub-api/pkg/database"
	"github.com/noah-isme/mediahub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mediahub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mediahub-api/pkg/middleware/requestid"
)

// @title MediaHub API
// @version 1.0.0
// @description Event and media production tracking for a campus media team.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	var cacheSvc *service.CacheService
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	}

	validate := validator.New()
	pol := policy.New()

	users := repository.NewUserRepository(db)
	institutions := repository.NewInstitutionRepository(db)
	events := repository.NewEventRepository(db)
	tasks := repository.NewTaskRepository(db)
	equipment := repository.NewEquipmentRepository(db)
	allocations := repository.NewAllocationRepository(db)
	notifications := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	notificationSvc := service.NewNotificationService(notifications, metricsSvc, logr)
	userSvc := service.NewUserService(users, validate, logr)
	institutionSvc := service.NewInstitutionService(institutions, events, validate, logr)
	eventSvc := service.NewEventService(events, institutions, tasks, allocations, notificationSvc, cacheSvc, validate, logr)
	taskSvc := service.NewTaskService(tasks, events, institutions, users, pol, notificationSvc, cacheSvc, validate, logr)
	equipmentSvc := service.NewEquipmentService(equipment, allocations, events, validate, logr)
	deliverableSvc := service.NewDeliverableService(tasks, events, institutions, metricsSvc, logr)
	dashboardSvc := service.NewDashboardService(events, tasks, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsSvc))
	}
	r.Use(middleware.WithResponseMeta())

	probes := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", probes.Prometheus)
	}

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc),
		Institutions:  handler.NewInstitutionHandler(institutionSvc),
		Events:        handler.NewEventHandler(eventSvc),
		Tasks:         handler.NewTaskHandler(taskSvc),
		Equipment:     handler.NewEquipmentHandler(equipmentSvc),
		Deliverables:  handler.NewDeliverableHandler(deliverableSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
	}, middleware.JWT(authSvc), pol)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

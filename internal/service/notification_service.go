package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mediahub-api/internal/models"
	"github.com/noah-isme/mediahub-api/internal/repository"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// notifier is the emission side used by workflow services.
type notifier interface {
	Emit(ctx context.Context, userID, title, message string, kind models.NotificationType, relatedID string) (*models.Notification, error)
}

// NotificationService creates workflow notifications and serves the polling surface.
type NotificationService struct {
	repo    notificationRepository
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationRepository, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Emit stores an unread notification for userID. Retried workflows may emit
// duplicates.
func (s *NotificationService) Emit(ctx context.Context, userID, title, message string, kind models.NotificationType, relatedID string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		IsRead:    false,
		CreatedAt: s.now().UTC(),
	}
	if relatedID != "" {
		n.RelatedID = &relatedID
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, appErrors.Store(err, "failed to create notification")
	}
	s.metrics.NotificationEmitted(kind)
	s.logger.Debug("notification emitted",
		zap.String("user_id", userID),
		zap.String("type", string(kind)),
		zap.String("related_id", relatedID),
	)
	return n, nil
}

// List returns the caller's newest notifications.
func (s *NotificationService) List(ctx context.Context, callerID string) ([]models.Notification, error) {
	items, err := s.repo.ListByUser(ctx, callerID, repository.NotificationListLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list notifications")
	}
	return items, nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, callerID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, callerID)
	if err != nil {
		return 0, appErrors.Store(err, "failed to count notifications")
	}
	return count, nil
}

// MarkRead flags one notification read. Missing and foreign notifications
// are both reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, callerID string) error {
	if err := s.repo.MarkRead(ctx, id, callerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Store(err, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead flags every unread notification of the caller.
func (s *NotificationService) MarkAllRead(ctx context.Context, callerID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, callerID)
	if err != nil {
		return 0, appErrors.Store(err, "failed to mark notifications read")
	}
	return n, nil
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// NotificationService manages the per-user notification inbox and delivers
// workflow notifications.
type NotificationService interface {
	Notify(ctx context.Context, userID int64, title, message string, nType models.NotificationType, data map[string]interface{}) error
	List(ctx context.Context, userID int64, unreadOnly bool, page, limit int) ([]dto.NotificationResponse, dto.PaginationInfo, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	repo   *repositories.NotificationRepository
	logger zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo *repositories.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// Notify inserts one inbox row. The payload map is attached as JSON so the
// frontend can deep-link to the related entity.
func (s *notificationService) Notify(ctx context.Context, userID int64, title, message string, nType models.NotificationType, data map[string]interface{}) error {
	var encoded json.RawMessage
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to encode notification data")
		} else {
			encoded = raw
		}
	}

	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		Data:    encoded,
	}
	return s.repo.Create(ctx, n)
}

// List returns a page of the user's inbox, newest first.
func (s *notificationService) List(ctx context.Context, userID int64, unreadOnly bool, page, limit int) ([]dto.NotificationResponse, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, limit)

	notifications, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}

	return responses, helpers.NewPaginationInfo(total, page, limit), nil
}

// UnreadCount returns the unread badge count.
func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips one notification to read.
func (s *notificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead flips the whole inbox to read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// notifyAsync fires a notification without blocking or failing the caller.
// Workflow writes are authoritative in PostgreSQL; a lost notification is
// logged, never propagated.
func notifyAsync(notifier NotificationService, logger zerolog.Logger, userID int64, title, message string, nType models.NotificationType, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := notifier.Notify(ctx, userID, title, message, nType, data); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("title", title).Msg("Failed to deliver notification")
	}
}

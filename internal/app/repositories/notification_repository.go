package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// NotificationRepository handles database operations for the per-user
// notification inbox.
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var notificationColumns = []string{
	"n.id", "n.user_id", "n.title", "n.message", "n.type", "n.data",
	"n.is_read", "n.created_at",
}

func scanNotification(row pgx.Row, extraDest ...interface{}) (*models.Notification, error) {
	var n models.Notification
	dest := []interface{}{
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Data,
		&n.IsRead, &n.CreatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new notification and sets its ID.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "title", "message", "type", "data").
		Values(n.UserID, n.Title, n.Message, n.Type, n.Data).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", n.UserID).Msg("Error inserting notification")
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications with pagination, optionally
// restricted to unread rows.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset uint64, limit int) ([]models.Notification, int64, error) {
	baseSelect := r.sb.Select(append(notificationColumns, "COUNT(*) OVER() AS total_count")...).
		From("notifications n").
		Where(squirrel.Eq{"n.user_id": userID})

	if unreadOnly {
		baseSelect = baseSelect.Where(squirrel.Eq{"n.is_read": false})
	}

	baseSelect = baseSelect.OrderBy("n.created_at DESC").Limit(uint64(limit)).Offset(offset)

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	var total int64
	for rows.Next() {
		n, err := scanNotification(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification to read. The user filter keeps one user
// from touching another user's inbox.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification of a user to read and returns
// how many were affected.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// DeleteByUser removes a user's whole inbox. Used by GDPR erasure.
func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting notifications for user ID=%d: %w", userID, err)
	}
	return cmdTag.RowsAffected(), nil
}

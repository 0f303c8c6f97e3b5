package notification

import (
	"ahaar-backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	NotificationRepository interface {
		CreateNotification(ctx context.Context, notification *entities.Notification) error
		GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entities.Notification, int64, error)
		CountUnread(ctx context.Context, userID string) (int64, error)
		MarkAsRead(ctx context.Context, id string, userID string, at time.Time) (bool, error)
		MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error)
		DeleteNotification(ctx context.Context, id string, userID string) (bool, error)
	}

	notificationRepository struct {
		db *gorm.DB
	}
)

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entities.Notification, int64, error) {
	var notifications []*entities.Notification
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, count, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAsRead reports whether a notification with this id belongs to the user.
// Marking an already-read notification keeps its first read time.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id string, userID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", at),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteNotification(ctx context.Context, id string, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Notification{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

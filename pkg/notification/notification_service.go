package notification

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type (
	NotificationService interface {
		Emit(ctx context.Context, userID string, notificationType string, title string, message string, data domain.NotificationData) error
		GetNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error)
		GetUnreadCount(ctx context.Context, userID string) (*domain.UnreadCount, error)
		MarkAsRead(ctx context.Context, id string, userID string) error
		MarkAllAsRead(ctx context.Context, userID string) (int64, error)
		DeleteNotification(ctx context.Context, id string, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		log                    logrus.FieldLogger
		now                    func() time.Time
	}
)

func NewNotificationService(notificationRepository NotificationRepository, log logrus.FieldLogger) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		log:                    log,
		now:                    time.Now,
	}
}

// Emit appends one notification for the recipient. Callers treat a failure as
// a secondary-effect failure; the state change that triggered it stands.
func (s *notificationService) Emit(ctx context.Context, userID string, notificationType string, title string, message string, data domain.NotificationData) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	notification := &entities.Notification{
		ID:      uuid.New(),
		UserID:  userUUID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data: datatypes.NewJSONType(entities.NotificationData{
			DonationID:    data.DonationID,
			ClaimerID:     data.ClaimerID,
			ClaimerName:   data.ClaimerName,
			Rating:        data.Rating,
			Feedback:      data.Feedback,
			Amount:        data.Amount,
			TransactionID: data.TransactionID,
		}),
	}
	if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"notification_id": notification.ID.String(),
		"user_id":         userID,
		"type":            notificationType,
	}).Debug("notification emitted")
	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	notifications, count, err := s.notificationRepository.GetUserNotifications(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, toDomainNotification(n))
	}
	return result, count, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*domain.UnreadCount, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}

	count, err := s.notificationRepository.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.UnreadCount{Unread: count}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrParseUUID
	}

	found, err := s.notificationRepository.MarkAsRead(ctx, id, userID, s.now())
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, domain.ErrParseUUID
	}
	return s.notificationRepository.MarkAllAsRead(ctx, userID, s.now())
}

// DeleteNotification answers not found for another user's notification so
// ids cannot be enumerated.
func (s *notificationService) DeleteNotification(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrParseUUID
	}

	found, err := s.notificationRepository.DeleteNotification(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func toDomainNotification(n *entities.Notification) *domain.Notification {
	data := n.Data.Data()
	return &domain.Notification{
		ID:      n.ID.String(),
		UserID:  n.UserID.String(),
		Type:    n.Type,
		Title:   n.Title,
		Message: n.Message,
		Data: domain.NotificationData{
			DonationID:    data.DonationID,
			ClaimerID:     data.ClaimerID,
			ClaimerName:   data.ClaimerName,
			Rating:        data.Rating,
			Feedback:      data.Feedback,
			Amount:        data.Amount,
			TransactionID: data.TransactionID,
		},
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

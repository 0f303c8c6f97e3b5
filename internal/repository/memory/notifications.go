package memory

import (
	"ahaar-backend/entities"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	s.stamp(notification.ID, &notification.Timestamp)

	stored := *notification
	s.notifications[notification.ID] = &stored
	return nil
}

func (s *Store) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entities.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*entities.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID.String() != userID || (unreadOnly && n.Read) {
			continue
		}
		matched = append(matched, n)
	}
	sort.Slice(matched, func(i, j int) bool {
		return s.newerFirst(matched[i].ID, matched[j].ID, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	start, end := window(len(matched), page, limit)
	result := make([]*entities.Notification, 0, end-start)
	for _, n := range matched[start:end] {
		cp := *n
		result = append(result, &cp)
	}
	return result, int64(len(matched)), nil
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID.String() == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) owned(id string, userID string) (*entities.Notification, bool) {
	nid, ok := parseID(id)
	if !ok {
		return nil, false
	}
	n, ok := s.notifications[nid]
	if !ok || n.UserID.String() != userID {
		return nil, false
	}
	return n, true
}

func (s *Store) MarkAsRead(ctx context.Context, id string, userID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.owned(id, userID)
	if !ok {
		return false, nil
	}
	if n.ReadAt == nil {
		readAt := at
		n.ReadAt = &readAt
	}
	n.Read = true
	return true, nil
}

func (s *Store) MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var marked int64
	for _, n := range s.notifications {
		if n.UserID.String() != userID || n.Read {
			continue
		}
		readAt := at
		n.Read = true
		n.ReadAt = &readAt
		marked++
	}
	return marked, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.owned(id, userID)
	if !ok {
		return false, nil
	}
	delete(s.notifications, n.ID)
	return true, nil
}

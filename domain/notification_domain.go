package domain

import (
	"time"
)

const (
	NotificationDonationClaimed       = "donation_claimed"
	NotificationDonationCompleted     = "donation_completed"
	NotificationFeedbackReceived      = "feedback_received"
	NotificationMoneyDonationReceived = "money_donation_received"
)

var (
	MessageSuccessGetNotifications   = "notifications retrieved successfully"
	MessageSuccessGetUnreadCount     = "unread notification count retrieved successfully"
	MessageSuccessMarkNotification   = "notification marked as read"
	MessageSuccessMarkAllRead        = "all notifications marked as read"
	MessageSuccessDeleteNotification = "notification deleted successfully"

	MessageFailedGetNotifications   = "failed to retrieve notifications"
	MessageFailedGetUnreadCount     = "failed to retrieve unread notification count"
	MessageFailedMarkNotification   = "failed to mark notification as read"
	MessageFailedMarkAllRead        = "failed to mark notifications as read"
	MessageFailedDeleteNotification = "failed to delete notification"

	ErrNotificationNotFound = NewNotFoundError("notification not found")
)

type (
	NotificationData struct {
		DonationID    string  `json:"donation_id,omitempty"`
		ClaimerID     string  `json:"claimer_id,omitempty"`
		ClaimerName   string  `json:"claimer_name,omitempty"`
		Rating        int     `json:"rating,omitempty"`
		Feedback      string  `json:"feedback,omitempty"`
		Amount        float64 `json:"amount,omitempty"`
		TransactionID string  `json:"transaction_id,omitempty"`
	}

	Notification struct {
		ID        string           `json:"id"`
		UserID    string           `json:"user_id"`
		Type      string           `json:"type"`
		Title     string           `json:"title"`
		Message   string           `json:"message"`
		Data      NotificationData `json:"data"`
		Read      bool             `json:"read"`
		ReadAt    *time.Time       `json:"read_at,omitempty"`
		CreatedAt time.Time        `json:"created_at"`
	}

	UnreadCount struct {
		Unread int64 `json:"unread"`
	}
)

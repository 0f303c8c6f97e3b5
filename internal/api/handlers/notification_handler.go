package handlers

import (
	"ahaar-backend/domain"
	"ahaar-backend/internal/api/presenters"
	"ahaar-backend/pkg/notification"

	"github.com/gofiber/fiber/v2"
)

type (
	NotificationHandler interface {
		GetNotifications(c *fiber.Ctx) error
		GetUnreadCount(c *fiber.Ctx) error
		MarkAsRead(c *fiber.Ctx) error
		MarkAllAsRead(c *fiber.Ctx) error
		DeleteNotification(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
	}
)

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &notificationHandler{notificationService: notificationService}
}

func (h *notificationHandler) GetNotifications(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)
	unreadOnly := c.QueryBool("unread", false)

	notifications, count, err := h.notificationService.GetNotifications(c.Context(), sessionUserID(c), unreadOnly, page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetNotifications, err)
	}

	return presenters.PaginatedResponse(c, notifications, page, limit, count, domain.MessageSuccessGetNotifications)
}

func (h *notificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	res, err := h.notificationService.GetUnreadCount(c.Context(), sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetUnreadCount, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUnreadCount)
}

func (h *notificationHandler) MarkAsRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAsRead(c.Context(), c.Params("id"), sessionUserID(c)); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedMarkNotification, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkNotification)
}

func (h *notificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	updated, err := h.notificationService.MarkAllAsRead(c.Context(), sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedMarkAllRead, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"updated": updated}, fiber.StatusOK, domain.MessageSuccessMarkAllRead)
}

func (h *notificationHandler) DeleteNotification(c *fiber.Ctx) error {
	if err := h.notificationService.DeleteNotification(c.Context(), c.Params("id"), sessionUserID(c)); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDeleteNotification, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteNotification)
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HandleGetNotifications returns the retained stock notifications,
// newest-first, plus the unread and unread-critical counts.
// GET /api/v1/notifications
func HandleGetNotifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   notifier.Notifications(),
		"meta": fiber.Map{
			"unreadCount":   notifier.UnreadCount(),
			"criticalCount": notifier.CriticalCount(),
		},
	})
}

// HandleMarkNotificationAsRead marks a single notification as read.
// PUT /api/v1/notifications/:notificationId/read
func HandleMarkNotificationAsRead(c *fiber.Ctx) error {
	notificationID := c.Params("notificationId")

	if !notifier.MarkAsRead(context.Background(), notificationID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Notification not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Notification marked as read"})
}

// HandleMarkAllNotificationsAsRead marks every notification as read.
// PUT /api/v1/notifications/read-all
func HandleMarkAllNotificationsAsRead(c *fiber.Ctx) error {
	notifier.MarkAllAsRead(context.Background())
	return c.JSON(fiber.Map{"status": "success", "message": "All notifications marked as read"})
}

// HandleClearNotifications wipes all notifications and cooldown history.
// DELETE /api/v1/notifications
func HandleClearNotifications(c *fiber.Ctx) error {
	notifier.ClearAll(context.Background())
	return c.JSON(fiber.Map{"status": "success", "message": "Notifications cleared"})
}

package delivery

import (
	"edubot/config"
	"edubot/domain"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type notifHandler struct {
	uc domain.NotificationUseCase
}

func NewNotificationHandler(app *fiber.App, uc domain.NotificationUseCase) {
	handler := &notifHandler{
		uc: uc,
	}

	group := app.Group("/notification")
	group.Post("/", handler.Create)
	group.Get("/", handler.List)
	group.Get("/unread-count", handler.UnreadCount)
	group.Get("/stats", handler.Stats)
	group.Put("/read-all", handler.MarkAllAsRead)
	group.Put("/:id/read", handler.MarkAsRead)
	group.Delete("/clear", handler.ClearAll)
	group.Delete("/:id", handler.Delete)
}

// recipientFrom pulls the recipient phone out of the request. The excluded
// auth layer would normally put it on the context; header and query are the
// stand-ins.
func recipientFrom(c *fiber.Ctx) string {
	if recipient := c.Get("X-Recipient"); recipient != "" {
		return recipient
	}
	return c.Query("recipient")
}

func (nh *notifHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	if _, err := govalidator.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid notification data",
		})
	}

	if !req.Category.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown notification category",
		})
	}

	notification, err := nh.uc.Create(c.Context(), &req)
	if err != nil {
		config.PrintLogInfo(&req.Recipient, fiber.StatusInternalServerError, "Create")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create notification",
		})
	}

	if notification == nil {
		// Suppressed by recipient preferences. Not an error.
		config.PrintLogInfo(&req.Recipient, fiber.StatusOK, "Create")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":    true,
			"message":    "Notification suppressed by recipient preferences",
			"suppressed": true,
		})
	}

	config.PrintLogInfo(&req.Recipient, fiber.StatusCreated, "Create")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Notification created successfully",
		"data":    notification,
	})
}

func (nh *notifHandler) List(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	filter := domain.ListFilter{
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
		UnreadOnly: c.QueryBool("unread_only", false),
	}

	// Unknown category strings are ignored, not rejected.
	if raw := c.Query("category"); raw != "" {
		if category, ok := domain.ParseCategory(raw); ok {
			filter.Category = &category
		}
	}

	notifications, err := nh.uc.List(c.Context(), recipient, filter)
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "List")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get notifications",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "List")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved notifications",
		"data":    notifications,
	})
}

func (nh *notifHandler) UnreadCount(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	count, err := nh.uc.UnreadCount(c.Context(), recipient)
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "UnreadCount")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get unread count",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "UnreadCount")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved unread count",
		"data":    fiber.Map{"unread": count},
	})
}

func (nh *notifHandler) Stats(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	stats, err := nh.uc.Stats(c.Context(), recipient)
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "Stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get notification stats",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "Stats")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved notification stats",
		"data":    stats,
	})
}

func (nh *notifHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification id",
		})
	}

	found, err := nh.uc.MarkAsRead(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark notification as read",
		})
	}

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}

func (nh *notifHandler) MarkAllAsRead(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	ok, err := nh.uc.MarkAllAsRead(c.Context(), recipient)
	if err != nil || !ok {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "MarkAllAsRead")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark notifications as read",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "MarkAllAsRead")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

func (nh *notifHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification id",
		})
	}

	found, err := nh.uc.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete notification",
		})
	}

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notification deleted successfully",
	})
}

func (nh *notifHandler) ClearAll(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	ok, err := nh.uc.ClearAll(c.Context(), recipient)
	if err != nil || !ok {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "ClearAll")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to clear notifications",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "ClearAll")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "All notifications cleared",
	})
}

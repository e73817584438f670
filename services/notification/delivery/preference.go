package delivery

import (
	"edubot/config"
	"edubot/domain"
	"time"

	"github.com/gofiber/fiber/v2"
)

type preferenceHandler struct {
	uc domain.PreferenceUseCase
}

func NewPreferenceHandler(app *fiber.App, uc domain.PreferenceUseCase) {
	handler := &preferenceHandler{
		uc: uc,
	}

	group := app.Group("/notification/preferences")
	group.Get("/", handler.GetPreferences)
	group.Put("/", handler.UpdatePreferences)
	group.Get("/should-send", handler.ShouldSend)
}

func (ph *preferenceHandler) GetPreferences(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	pref, err := ph.uc.GetPreferences(c.Context(), recipient)
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "GetPreferences")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get preferences",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "GetPreferences")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved preferences",
		"data":    pref,
	})
}

func (ph *preferenceHandler) UpdatePreferences(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	// Field filtering happens below: anything outside the allow-list is
	// dropped without complaint.
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	pref, err := ph.uc.UpdatePreferences(c.Context(), recipient, fields)
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "UpdatePreferences")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update preferences",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "UpdatePreferences")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Preferences updated successfully",
		"data":    pref,
	})
}

func (ph *preferenceHandler) ShouldSend(c *fiber.Ctx) error {
	recipient := recipientFrom(c)
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Recipient is required",
		})
	}

	ok, err := ph.uc.ShouldSendNow(c.Context(), recipient, time.Now())
	if err != nil {
		config.PrintLogInfo(&recipient, fiber.StatusInternalServerError, "ShouldSend")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check quiet hours",
		})
	}

	config.PrintLogInfo(&recipient, fiber.StatusOK, "ShouldSend")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully checked quiet hours",
		"data":    fiber.Map{"should_send": ok},
	})
}

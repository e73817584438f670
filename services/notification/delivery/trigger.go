package delivery

import (
	"edubot/config"
	"edubot/domain"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type triggerHandler struct {
	uc domain.TriggerUseCase
}

// NewTriggerHandler exposes the event catalog to the rest of the platform.
// The bot and the dashboard raise their domain events here.
func NewTriggerHandler(app *fiber.App, uc domain.TriggerUseCase) {
	handler := &triggerHandler{
		uc: uc,
	}

	group := app.Group("/notification/events")
	group.Get("/", handler.ListEvents)
	group.Post("/:name", handler.FireEvent)
}

func (th *triggerHandler) ListEvents(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved event catalog",
		"data":    th.uc.Names(),
	})
}

func (th *triggerHandler) FireEvent(c *fiber.Ctx) error {
	name := c.Params("name")

	var req domain.FireRequest
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
			"message": "Invalid event data",
		})
	}

	known := false
	for _, n := range th.uc.Names() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Unknown event",
		})
	}

	created := th.uc.Fire(c.Context(), name, &req)

	config.PrintLogInfo(&req.Recipient, fiber.StatusOK, "FireEvent")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Event processed",
		"data":    fiber.Map{"created": created},
	})
}

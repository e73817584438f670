package delivery

import (
	"edubot/domain"

	"github.com/gofiber/fiber/v2"
)

type dispatcherHandler struct {
	uc domain.DispatcherUseCase
}

// NewDispatcherHandler exposes the delivery sweep. An external scheduler
// (or an admin pressing the button) drives it; the engine never does.
func NewDispatcherHandler(app *fiber.App, uc domain.DispatcherUseCase) {
	handler := &dispatcherHandler{
		uc: uc,
	}

	group := app.Group("/notification")
	group.Post("/dispatch", handler.DispatchPending)
}

func (dh *dispatcherHandler) DispatchPending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	report, err := dh.uc.DispatchPending(c.Context(), limit)
	if err != nil {
		// Partial sweeps still report what they managed to do.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Dispatch sweep finished with errors",
			"data":    report,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dispatch sweep finished",
		"data":    report,
	})
}

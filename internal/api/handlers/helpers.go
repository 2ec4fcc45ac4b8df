package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/gemini"
	"github.com/maheshrc27/bizhub-api/internal/service"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// errorResponse maps service errors to a status and a message that is safe to
// show. Anything unrecognised is logged and reported as fallback.
func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	var genErr *gemini.Error

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File must be an image up to 2 MB"})
	case errors.Is(err, service.ErrUnsupportedPlatform):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported platform"})
	case errors.Is(err, service.ErrRefreshUnsupported), errors.Is(err, service.ErrNoToken):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "File uploads are disabled"})
	case errors.As(err, &genErr):
		status := fiber.StatusBadGateway
		if genErr.Reason == gemini.ReasonTimeout {
			status = fiber.StatusGatewayTimeout
		}
		return c.Status(status).JSON(fiber.Map{"error": genErr.Reason, "message": genErr.Message})
	}

	slog.Info(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

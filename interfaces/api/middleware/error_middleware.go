package middleware

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/utils"
)

// ErrorHandler fiber errors (404 route, 405, body limit) and anything a
// handler returned instead of writing a response.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Unhandled error", "path", c.Path(), "error", err)
		}

		return utils.ErrorResponse(c, code, message)
	}
}

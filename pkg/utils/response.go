package utils

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/query"
)

// ========== Response Structures ==========

// ErrorBody {"error": "..."} envelope for every non-2xx response
type ErrorBody struct {
	Error string `json:"error"`
}

// ListBody {items, pagination} envelope for list endpoints
type ListBody struct {
	Items      any              `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func ListResponse(c *fiber.Ctx, items any, pagination query.Pagination) error {
	return c.Status(fiber.StatusOK).JSON(ListBody{
		Items:      items,
		Pagination: pagination,
	})
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, message)
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponse(c, fiber.StatusUnauthorized, message)
}

func ForbiddenResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Forbidden"
	}
	return ErrorResponse(c, fiber.StatusForbidden, message)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, message)
}

func ConflictResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusConflict, message)
}

func InternalServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}

// HandleError maps the error taxonomy to a status code. Store failures and
// anything unclassified become a 500 with genericMsg; the cause is only logged.
func HandleError(c *fiber.Ctx, err error, genericMsg string) error {
	ctx := c.UserContext()

	switch {
	case errors.IsValidation(err):
		return BadRequestResponse(c, err.Error())
	case errors.IsUnauthorized(err):
		return UnauthorizedResponse(c, err.Error())
	case errors.IsForbidden(err):
		return ForbiddenResponse(c, err.Error())
	case errors.IsNotFound(err):
		return NotFoundResponse(c, err.Error())
	case errors.IsConflict(err):
		return ConflictResponse(c, err.Error())
	}

	if genericMsg == "" {
		genericMsg = "Internal server error"
	}
	logger.ErrorContext(ctx, genericMsg, "error", err, "path", c.Path())
	return ErrorResponse(c, fiber.StatusInternalServerError, genericMsg)
}

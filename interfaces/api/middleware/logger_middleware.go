package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"jobcore-api/pkg/logger"
)

// LoggerMiddleware one completion line per request.
// Subject comes from the context Authenticate sets, so it is only present on
// /api/v1/job-core routes. Probes (/health, /) log at debug.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler ยังไม่ได้เขียน status ตอนนี้
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		args := []any{
			"method", c.Method(),
			"route", c.Route().Path,
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", len(c.Response().Body()),
			"ip", c.IP(),
		}
		if name := c.Params("name"); name != "" {
			args = append(args, "task_name", name)
		}
		if id := c.Params("id"); id != "" {
			args = append(args, "execution_id", id)
		}

		ctx := c.UserContext()
		logger.WithRequestID(ctx).Log(ctx, completionLevel(status, c.Path()), "Request completed", args...)
		return err
	}
}

func completionLevel(status int, path string) slog.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return slog.LevelError
	case status >= fiber.StatusBadRequest:
		return slog.LevelWarn
	case path == "/" || strings.HasPrefix(path, "/health"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

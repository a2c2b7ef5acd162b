package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobcore-api/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDLocalsKey = "request_id"
	maxRequestIDLength = 64
)

// RequestIDMiddleware ใช้ X-Request-ID จาก client ถ้าเป็น token ที่ปลอดภัยสำหรับ log
// ไม่งั้นสร้าง uuid ใหม่ id เดียวกันไปอยู่ใน response header, log และ error log ของ authz
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDHeader, requestID)
		c.Locals(requestIDLocalsKey, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}

// RequestID id ของ request ปัจจุบัน; "" ถ้า middleware ไม่ได้ถูก mount
func RequestID(c *fiber.Ctx) string {
	requestID, _ := c.Locals(requestIDLocalsKey).(string)
	return requestID
}

// validRequestID [A-Za-z0-9._-], 1..64 chars
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.':
		default:
			return false
		}
	}
	return true
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/utils"
)

// DefaultAuthCookie cookie ที่ frontend ใช้เก็บ token
const DefaultAuthCookie = "hit_token"

// Authenticate resolves the caller from the auth cookie or a Bearer header.
// A request without any token passes through anonymously so the authz
// middleware can answer 401; a token that fails verification is 401 here.
func Authenticate(jwtSecret, cookieName string) fiber.Handler {
	if cookieName == "" {
		cookieName = DefaultAuthCookie
	}

	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(cookieName))
		if token == "" {
			token = utils.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return c.Next()
		}

		identity, err := utils.ParseIdentityToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals(utils.IdentityLocalsKey, identity)
		c.SetUserContext(logger.ContextWithSubject(c.UserContext(), identity.Subject))

		return c.Next()
	}
}

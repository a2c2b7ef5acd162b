package middleware

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/authz"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/utils"
)

const authzLogPrefix = "Job-Core"

func identityOf(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(utils.IdentityLocalsKey).(*models.Identity)
	return identity
}

// RequireEntity gates a route by entity scope, e.g. ("job-core.task", OpList).
func RequireEntity(guard *authz.Guard, entityKey string, op authz.Op) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := identityOf(c)
		if err := guard.RequireEntity(identity, entityKey, op); err != nil {
			logDenied(c, identity, err, "entity", entityKey, "op", string(op))
			return utils.HandleError(c, err, "")
		}
		return c.Next()
	}
}

// RequireAction gates a route by a boolean action grant.
func RequireAction(guard *authz.Guard, actionKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := identityOf(c)
		if err := guard.RequireAction(identity, actionKey); err != nil {
			logDenied(c, identity, err, "action", actionKey)
			return utils.HandleError(c, err, "")
		}
		return c.Next()
	}
}

func logDenied(c *fiber.Ctx, identity *models.Identity, err error, args ...any) {
	subject := ""
	if identity != nil {
		subject = identity.Subject
	}
	args = append(args, "subject", subject, "path", c.Path(), "reason", err.Error())
	logger.Prefixed(c.UserContext(), authzLogPrefix).Warn("Access denied", args...)
}

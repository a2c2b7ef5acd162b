package routes

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/interfaces/api/handlers"
	"jobcore-api/interfaces/api/middleware"
	"jobcore-api/pkg/authz"
)

// Options สิ่งที่ route ต้องใช้นอกจาก handlers
type Options struct {
	AppName     string
	CORSOrigins string
	Guard       *authz.Guard
	JWTSecret   string
	AuthCookie  string
}

// NewApp fiber app with the middleware chain and every route mounted.
func NewApp(h *handlers.Handlers, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		AppName:               opts.AppName,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	// Setup middleware (order matters!)
	app.Use(middleware.RequestIDMiddleware()) // ต้องมาก่อน logger
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(opts.CORSOrigins))

	SetupRoutes(app, h, opts)
	return app
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, opts Options) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api/v1")
	SetupJobCoreRoutes(api, h, opts)
}

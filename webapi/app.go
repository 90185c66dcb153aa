// Package webapi assembles the fiber application.
package webapi

import (
	"github.com/amirasaad/splitpay/pkg/app"
	"github.com/amirasaad/splitpay/webapi/auth"
	"github.com/amirasaad/splitpay/webapi/common"
	"github.com/amirasaad/splitpay/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp creates the fiber application with every route and middleware.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	if cfg.RateLimit != nil && cfg.RateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.MaxRequests,
			Expiration: cfg.RateLimit.Window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
			},
		}))
	}
	fiberApp.Use(recover.New())
	if cfg.Env != "test" {
		fiberApp.Use(logger.New())
	}
	if m := a.Deps.Metrics; m != nil {
		fiberApp.Use(m.FiberMiddleware())
		fiberApp.Get("/metrics", m.Handler())
	}

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.AuthRoutes(fiberApp, a.AuthService)
	user.UserRoutes(fiberApp, a.AccountService, a.TransferService, a.AuthService, cfg.Auth.Jwt)

	return fiberApp
}

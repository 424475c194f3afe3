// Package httpapi exposes the services over HTTP with fiber.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/MagnunAVF/clicklink/internal/account"
	"github.com/MagnunAVF/clicklink/internal/auth"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/shortlink"
)

// Pinger is anything /health can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Links    *shortlink.Resolver
	Auth     *auth.Authority
	Accounts *account.Service
	// Checks are probed by /health, keyed by the name reported on failure.
	Checks map[string]Pinger
}

type handler struct {
	Services
	validate *validator
}

func New(s Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "clicklink",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.FiberMiddleware())
	app.Use(cors.New())

	h := &handler{Services: s, validate: newValidator()}

	app.Get("/health", h.health)

	authRoutes := app.Group("/auth")
	authRoutes.Post("/sign-up/", h.signUp)
	authRoutes.Post("/log-in/", h.logIn)

	urls := app.Group("/urls")
	urls.Post("/short-url/", h.requireUser, h.shorten)
	urls.Post("/short-url-public/", h.shortenPublic)
	urls.Get("/list-urls/", h.requireUser, h.listURLs)
	urls.Get("/get-url/:short_code", h.redirect)

	users := app.Group("/users", h.requireUser)
	users.Get("/profile/", h.profile)
	users.Put("/change-password/", h.changePassword)
	users.Put("/change-username/", h.changeUsername)

	return app
}

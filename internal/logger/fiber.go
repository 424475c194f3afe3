package logger

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// FiberMiddleware tags each request with an id (taken from X-Request-ID or
// generated), stores it in the user context for downstream services and logs
// the request once it completes.
func FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)
		c.SetUserContext(WithRequestID(c.UserContext(), requestID))

		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		route := ""
		if r := c.Route(); r != nil {
			route = r.Path
		}

		attrs := []any{
			"status", status,
			"method", c.Method(),
			"path", c.OriginalURL(),
			"route", route,
			"ip", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"latency_ms", float64(latency.Microseconds()) / 1000.0,
		}

		l := FromContext(c.UserContext())
		if err != nil {
			l.Error("http request", append(attrs, "err", err.Error())...)
			return err
		}
		l.Info("http request", attrs...)
		return nil
	}
}

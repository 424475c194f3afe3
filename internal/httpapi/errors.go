package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MagnunAVF/clicklink/internal/apperror"
	"github.com/MagnunAVF/clicklink/internal/logger"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindAuthentication:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders err as {"detail": ...}. Internal causes are logged and
// replaced with a generic message.
func writeError(c *fiber.Ctx, err error) error {
	e := apperror.From(err)
	status := statusFor(e.Kind)
	if e.Kind == apperror.KindInternal {
		logger.FromContext(c.UserContext()).Error("Request failed", "err", err)
	}
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(fiber.Map{"detail": e.PublicMessage()})
}

// errorHandler covers errors that escape the handlers: unknown routes,
// wrong methods and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	return writeError(c, err)
}

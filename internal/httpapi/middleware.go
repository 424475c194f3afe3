package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MagnunAVF/clicklink/internal/auth"
)

const localUser = "user"

// requireUser admits requests carrying a valid bearer token and stores the
// token's data for the handlers.
func (h *handler) requireUser(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return writeError(c, errNotAuthenticated)
	}
	data, err := h.Auth.VerifyToken(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(localUser, data)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *auth.TokenData {
	return c.Locals(localUser).(*auth.TokenData)
}

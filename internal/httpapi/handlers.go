package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/apperror"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// logInForm follows the OAuth2 password grant: username carries the email.
type logInForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type shortenRequest struct {
	LongURL string `json:"long_url" validate:"required"`
}

type shortenResponse struct {
	ShortCode string `json:"short_code"`
}

type urlResponse struct {
	ID        int64      `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	LongURL   string     `json:"long_url"`
	ShortCode string     `json:"short_code"`
	Clicks    int64      `json:"clicks"`
	CreatedAt time.Time  `json:"created_at"`
}

type profileResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type changePasswordRequest struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type changeUsernameRequest struct {
	Username string `json:"username" validate:"required,max=150"`
}

func (h *handler) health(c *fiber.Ctx) error {
	failed := fiber.Map{}
	for name, p := range h.Checks {
		if err := p.Ping(c.UserContext()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "checks": failed})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handler) signUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := h.validate.bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if _, err := h.Auth.Register(c.UserContext(), req.Email, req.Username, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *handler) logIn(c *fiber.Ctx) error {
	var form logInForm
	if err := h.validate.bind(c, &form); err != nil {
		return writeError(c, err)
	}
	token, err := h.Auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(token)
}

func (h *handler) shorten(c *fiber.Ctx) error {
	user := currentUser(c)
	return h.register(c, &user.UserID)
}

func (h *handler) shortenPublic(c *fiber.Ctx) error {
	return h.register(c, nil)
}

func (h *handler) register(c *fiber.Ctx, owner *uuid.UUID) error {
	var req shortenRequest
	if err := h.validate.bind(c, &req); err != nil {
		return writeError(c, err)
	}
	code, err := h.Links.Register(c.UserContext(), req.LongURL, owner)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(shortenResponse{ShortCode: h.Links.ShortURL(code)})
}

func (h *handler) listURLs(c *fiber.Ctx) error {
	urls, err := h.Links.ListOwned(c.UserContext(), currentUser(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	resp := make([]urlResponse, 0, len(urls))
	for _, u := range urls {
		resp = append(resp, toURLResponse(u))
	}
	return c.JSON(resp)
}

func (h *handler) redirect(c *fiber.Ctx) error {
	r, err := h.Links.Resolve(c.UserContext(), c.Params("short_code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Redirect(r.URL, r.Status)
}

func (h *handler) profile(c *fiber.Ctx) error {
	user, err := h.Accounts.GetProfile(c.UserContext(), currentUser(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profileResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (h *handler) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := h.validate.bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.Accounts.ChangePassword(c.UserContext(), currentUser(c).UserID, req.Password, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *handler) changeUsername(c *fiber.Ctx) error {
	var req changeUsernameRequest
	if err := h.validate.bind(c, &req); err != nil {
		return writeError(c, err)
	}
	user, err := h.Accounts.ChangeUsername(c.UserContext(), currentUser(c).UserID, req.Username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profileResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func toURLResponse(u internal.URL) urlResponse {
	return urlResponse{
		ID:        u.ID,
		UserID:    u.UserID,
		LongURL:   u.LongURL,
		ShortCode: u.Code(),
		Clicks:    u.Clicks,
		CreatedAt: u.CreatedAt,
	}
}

var errNotAuthenticated = &apperror.Error{Kind: apperror.KindAuthentication, Message: "Not authenticated"}

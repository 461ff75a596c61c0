package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lborres/vestibule"
)

// RequireAuth validates the session claim, reconciles it against the store,
// and places the fresh user and session data in the context for downstream
// handlers.
func (a *Adapter) RequireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": vestibule.ErrMissingAuthHeader.Error(),
		})
	}

	sessionData, err := a.v.Sessions.Resolve(c.Context(), token)
	if err != nil {
		return handleAuthError(c, err)
	}

	c.Locals("user", sessionData.User)
	c.Locals("session", sessionData)

	return c.Next()
}

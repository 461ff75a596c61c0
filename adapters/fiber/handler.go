package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/vestibule"
	"github.com/lborres/vestibule/core"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input vestibule.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.v.Auth.SignUp(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

func (a *Adapter) signIn(c fiber.Ctx) error {
	var input vestibule.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.v.Auth.SignIn(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) signOut(c fiber.Ctx) error {
	if err := a.v.Auth.SignOut(extractToken(c)); err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "signed out successfully",
	})
}

// session returns the reconciled session; RequireAuth already resolved it.
func (a *Adapter) session(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(c.Locals("session"))
}

func (a *Adapter) forgotPassword(c fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	message, err := a.v.Resets.Request(c.Context(), req.Email)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": message,
	})
}

func (a *Adapter) resetPassword(c fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := a.v.Resets.Redeem(c.Context(), req.Token, req.Password); err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "Password has been reset successfully",
	})
}

func (a *Adapter) requestMagicLink(c fiber.Ctx) error {
	var req magicLinkRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	message, err := a.v.MagicLinks.Request(c.Context(), req.Email)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": message,
	})
}

func (a *Adapter) consumeMagicLink(c fiber.Ctx) error {
	result, err := a.v.MagicLinks.Consume(c.Context(), c.Query("token"))
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) oauthBegin(c fiber.Ctx) error {
	url, err := a.v.OAuth.Begin()
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Redirect().To(url)
}

func (a *Adapter) oauthCallback(c fiber.Ctx) error {
	result, err := a.v.OAuth.Complete(c.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) updateProfile(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*vestibule.User)
	if !ok {
		return handleAuthError(c, core.ErrInvalidSession)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	updated, err := a.v.Profiles.UpdateName(c.Context(), user.ID, req.Name)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]any{
		"user": updated,
	})
}

// extractToken extracts the authentication token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies("auth_token")
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(map[string]string{
		"error": message,
	})
}

// handleAuthError maps service errors to HTTP responses. Infrastructure
// failures are logged with detail server-side and surfaced as a generic 500;
// nothing internal reaches the client.
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		message := "An error occurred. Please try again."
		if errors.Is(err, core.ErrMailSendFailed) {
			message = "Failed to send email. Please try again later."
		}
		return c.Status(status).JSON(map[string]string{"error": message})
	}

	return c.Status(status).JSON(map[string]string{
		"error": userFacingMessage(err),
	})
}

// userFacingMessage strips wrapping from known errors so clients see the
// sentinel text only.
func userFacingMessage(err error) string {
	var cooldown *core.CooldownError
	if errors.As(err, &cooldown) {
		return cooldown.Error()
	}
	return err.Error()
}

// mapErrorToStatus maps error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var cooldown *core.CooldownError
	if errors.As(err, &cooldown) {
		return http.StatusTooManyRequests
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidSession),
		errors.Is(err, core.ErrSessionExpired),
		errors.Is(err, core.ErrMissingAuthHeader):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrOAuthDisabled):
		return http.StatusNotFound

	case errors.Is(err, core.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrTokenRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrNameRequired),
		errors.Is(err, core.ErrNameTooLong),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrStateInvalid):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

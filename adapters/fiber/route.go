package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lborres/vestibule"
)

type Adapter struct {
	app *fiber.App
	v   *vestibule.Vestibule
}

var _ vestibule.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(v *vestibule.Vestibule) error {
	a.v = v
	api := a.app.Group(v.BasePath)

	// Public routes
	api.Post("/sign-up", a.signUp)
	api.Post("/sign-in", a.signIn)
	api.Post("/forgot-password", a.forgotPassword)
	api.Post("/reset-password", a.resetPassword)
	api.Post("/magic-link", a.requestMagicLink)
	api.Get("/magic-link", a.consumeMagicLink)

	if v.OAuth != nil {
		api.Get("/oauth", a.oauthBegin)
		api.Get("/oauth/callback", a.oauthCallback)
	}

	// Protected routes
	api.Post("/sign-out", a.signOut, a.RequireAuth)
	api.Get("/session", a.session, a.RequireAuth)
	a.app.Put("/profile", a.updateProfile, a.RequireAuth)

	return nil
}

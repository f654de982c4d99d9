package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobsabroad-web/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Pages     *handlers.PagesHandler
	Auth      *handlers.AuthHandler
	Apply     *handlers.ApplyHandler
	Payment   *handlers.PaymentHandler
	Return    *handlers.ReturnHandler
	Dashboard *handlers.DashboardHandler
	Sites     *handlers.SitesHandler
	Guards    *Guards
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz/live", cfg.Health.Live)
	app.Get("/healthz/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Landing)
	app.Get("/lang/:code", cfg.Pages.SwitchLanguage)

	app.Get("/login", cfg.Auth.Show)
	app.Post("/login", cfg.Auth.Submit)
	app.Get("/logout", cfg.Auth.Logout)

	app.Get("/apply", cfg.Apply.Show)
	app.Post("/apply", cfg.Apply.Submit)

	app.Get("/payment", cfg.Payment.Show)
	app.Post("/payment", cfg.Payment.Initialize)

	app.Get("/payment/success", cfg.Return.Landing)
	app.Post("/payment/success/login", cfg.Return.SubmitLogin)

	// Guards attach per route so unmatched paths still 404 instead of
	// falling into the gate.
	subscriber := cfg.Guards.RequireSubscriber()
	app.Get("/dashboard", subscriber, cfg.Dashboard.Show)
	app.Get("/sites", subscriber, cfg.Sites.List)

	app.Get("/admin/", cfg.Guards.RequireAdmin(), cfg.Pages.Admin)
}

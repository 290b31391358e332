package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.DeviceMiddleware)

	auth := api.Group("/auth")
	auth.Post("/signup", handler.Signup)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.Me)
	auth.Get("/state", handler.SessionState)

	onboarding := api.Group("/onboarding")
	onboarding.Get("", handler.ShowOnboarding)
	onboarding.Post("/steps/:step", handler.SaveOnboardingStep)
	onboarding.Post("/submit", handler.AuthRequired, handler.SubmitOnboarding)
	onboarding.Get("/bearing", handler.AuthRequired, handler.GetBearing)

	api.Get("/blog", handler.ListPosts)
	api.Get("/blog/:id", handler.GetPost)
	api.Get("/community", handler.ListProfiles)
	api.Get("/community/:id", handler.GetProfile)
	api.Get("/navigators", handler.ListNavigators)
	api.Get("/navigators/:id", handler.GetNavigator)
	api.Get("/appointments", handler.ListAppointments)

	api.Post("/chat", handler.Chat)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

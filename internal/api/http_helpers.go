package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseBody accepts JSON and form posts alike.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// respondAuthError renders an AuthError with the provider's 4xx status when
// one was sent, otherwise with fallback.
func respondAuthError(c *fiber.Ctx, err error, fallback int) error {
	var authErr *services.AuthError
	if !errors.As(err, &authErr) {
		return apiError(c, fiber.StatusInternalServerError, "authentication failed")
	}

	status := fallback
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		status = fiber.StatusBadRequest
	default:
		if providerStatus := hostedauth.StatusOf(err); providerStatus >= 400 && providerStatus < 500 {
			status = providerStatus
		}
	}
	return apiError(c, status, strings.TrimSpace(authErr.Message))
}

package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mindharbor/internal/content"
)

func (handler *Handler) ListPosts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"posts": handler.content.Posts()})
}

func (handler *Handler) GetPost(c *fiber.Ctx) error {
	post, err := handler.content.Post(c.Params("id"))
	if err != nil {
		return contentError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

func (handler *Handler) ListProfiles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"profiles": handler.content.Profiles()})
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := handler.content.Profile(c.Params("id"))
	if err != nil {
		return contentError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (handler *Handler) ListNavigators(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"navigators": handler.content.Navigators()})
}

func (handler *Handler) GetNavigator(c *fiber.Ctx) error {
	navigator, err := handler.content.Navigator(c.Params("id"))
	if err != nil {
		return contentError(c, err)
	}
	return c.JSON(fiber.Map{"navigator": navigator})
}

func (handler *Handler) ListAppointments(c *fiber.Ctx) error {
	specialty := strings.ToLower(strings.TrimSpace(c.Query("specialty")))
	return c.JSON(fiber.Map{"appointments": handler.content.Appointments(specialty)})
}

func contentError(c *fiber.Ctx, err error) error {
	if errors.Is(err, content.ErrContentNotFound) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	return apiError(c, fiber.StatusInternalServerError, "failed to load content")
}

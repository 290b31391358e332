package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mindharbor/internal/services"
)

type chatInput struct {
	Message string `json:"message" form:"message"`
}

func (handler *Handler) Chat(c *fiber.Ctx) error {
	input := chatInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reply, err := handler.chat.Reply(c.UserContext(), input.Message)
	if errors.Is(err, services.ErrChatMessageEmpty) {
		return apiError(c, fiber.StatusBadRequest, "message is required")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "chat is unavailable")
	}
	return c.JSON(reply)
}

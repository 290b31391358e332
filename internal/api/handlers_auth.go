package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type signupInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

type loginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	input := signupInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.auth.Signup(c.UserContext(), currentDeviceID(c), input.Email, input.Password, input.Name)
	if err != nil {
		return respondAuthError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts, try again later")
	}

	input := loginInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.auth.Login(c.UserContext(), currentDeviceID(c), input.Email, input.Password)
	if err != nil {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return respondAuthError(c, err, fiber.StatusUnauthorized)
	}
	handler.loginLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{"user": user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if err := handler.auth.Logout(c.UserContext(), currentDeviceID(c)); err != nil {
		handler.logger.Info("provider sign-out failed", zap.Error(err))
		return respondAuthError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Me reports the signed-in user. No session is a normal answer, not an error.
func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := handler.auth.ResolveCurrentUser(c.UserContext(), currentDeviceID(c))
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false, "user": nil})
	}
	return c.JSON(fiber.Map{"authenticated": true, "user": user})
}

func (handler *Handler) SessionState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": handler.auth.State(currentDeviceID(c))})
}

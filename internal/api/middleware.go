package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/mindharbor/internal/models"
	"go.uber.org/zap"
)

const (
	contextDeviceKey = "device_id"
	contextUserKey   = "current_user"
)

// DeviceMiddleware identifies the browser. A missing or tampered cookie gets
// a fresh device id.
func (handler *Handler) DeviceMiddleware(c *fiber.Ctx) error {
	deviceID, err := handler.parseDeviceToken(c.Cookies(deviceCookieName))
	if err != nil {
		deviceID = uuid.NewString()
		if err := handler.setDeviceCookie(c, deviceID); err != nil {
			handler.logger.Error("issue device cookie", zap.Error(err))
			return apiError(c, fiber.StatusInternalServerError, "failed to identify device")
		}
	}
	c.Locals(contextDeviceKey, deviceID)
	return c.Next()
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, ok := handler.auth.ResolveCurrentUser(c.UserContext(), currentDeviceID(c))
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserKey, user)
	return c.Next()
}

func currentDeviceID(c *fiber.Ctx) string {
	deviceID, _ := c.Locals(contextDeviceKey).(string)
	return deviceID
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	deviceCookieName = "mindharbor_device"
	deviceCookieTTL  = 365 * 24 * time.Hour
	deviceIssuer     = "mindharbor"
)

type deviceClaims struct {
	DeviceID string `json:"did"`
	jwt.RegisteredClaims
}

func (handler *Handler) buildDeviceToken(deviceID string, now time.Time) (string, error) {
	claims := deviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    deviceIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(deviceCookieTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}

func (handler *Handler) parseDeviceToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("missing device cookie")
	}

	claims := &deviceClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithIssuer(deviceIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errors.New("invalid device cookie")
	}

	deviceID, err := uuid.Parse(claims.DeviceID)
	if err != nil {
		return "", errors.New("invalid device id")
	}
	return deviceID.String(), nil
}

func (handler *Handler) setDeviceCookie(c *fiber.Ctx, deviceID string) error {
	now := time.Now()
	token, err := handler.buildDeviceToken(deviceID, now)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     deviceCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  now.Add(deviceCookieTTL),
	})
	return nil
}

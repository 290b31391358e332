package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/models"
)

const accessTokenPurpose = "access-token"

// DeviceStore is the device-local key/value storage.
type DeviceStore interface {
	Get(deviceID string, key string) (string, error)
	Put(deviceID string, key string, value string) error
	Delete(deviceID string, key string) error
}

type TokenSealer interface {
	Seal(purpose string, plaintext []byte) (string, error)
	Open(purpose string, raw string) ([]byte, error)
}

// TokenVault keeps a device's access token sealed in the device store.
type TokenVault struct {
	store  DeviceStore
	sealer TokenSealer
}

func NewTokenVault(store DeviceStore, sealer TokenSealer) *TokenVault {
	return &TokenVault{store: store, sealer: sealer}
}

func (vault *TokenVault) Save(deviceID string, accessToken string) error {
	sealed, err := vault.sealer.Seal(accessTokenPurpose, []byte(accessToken))
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	if err := vault.store.Put(deviceID, models.DeviceKeyAccessToken, sealed); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	return nil
}

// Load returns the stored access token, or an empty string when the device has
// none. A value that no longer opens is treated as absent.
func (vault *TokenVault) Load(deviceID string) (string, error) {
	sealed, err := vault.store.Get(deviceID, models.DeviceKeyAccessToken)
	if errors.Is(err, db.ErrEntryNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load access token: %w", err)
	}

	plaintext, err := vault.sealer.Open(accessTokenPurpose, sealed)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(plaintext)), nil
}

func (vault *TokenVault) Clear(deviceID string) error {
	if err := vault.store.Delete(deviceID, models.DeviceKeyAccessToken); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	return nil
}

package models

import "time"

const (
	DeviceKeyAccessToken         = "access_token"
	DeviceKeyOnboardingCompleted = "onboarding_completed"
	DeviceKeyOnboardingDraft     = "onboarding_draft"
)

// DeviceEntry is an opaque key/value entry owned by a single browser device.
// Writes replace the whole value.
type DeviceEntry struct {
	ID        uint      `gorm:"primaryKey"`
	DeviceID  string    `gorm:"not null;uniqueIndex:uidx_device_key"`
	Key       string    `gorm:"not null;uniqueIndex:uidx_device_key"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

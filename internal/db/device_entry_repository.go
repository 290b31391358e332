package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/mindharbor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEntryNotFound is returned when a device has nothing stored under a key.
var ErrEntryNotFound = errors.New("device entry not found")

type DeviceEntryRepository struct {
	database *gorm.DB
}

func NewDeviceEntryRepository(database *gorm.DB) *DeviceEntryRepository {
	return &DeviceEntryRepository{database: database}
}

func (repo *DeviceEntryRepository) Get(deviceID string, key string) (string, error) {
	var entry models.DeviceEntry
	err := repo.database.
		Where("device_id = ? AND key = ?", deviceID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrEntryNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Put overwrites the value stored under key for the device.
func (repo *DeviceEntryRepository) Put(deviceID string, key string, value string) error {
	entry := models.DeviceEntry{
		DeviceID:  deviceID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (repo *DeviceEntryRepository) Delete(deviceID string, key string) error {
	return repo.database.
		Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&models.DeviceEntry{}).Error
}

// DeleteDevice removes every entry owned by the device and reports how many
// rows were dropped.
func (repo *DeviceEntryRepository) DeleteDevice(deviceID string) (int64, error) {
	result := repo.database.Where("device_id = ?", deviceID).Delete(&models.DeviceEntry{})
	return result.RowsAffected, result.Error
}

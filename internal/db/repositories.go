package db

import "gorm.io/gorm"

type Repositories struct {
	DeviceEntries *DeviceEntryRepository
	Bearings      *BearingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		DeviceEntries: NewDeviceEntryRepository(database),
		Bearings:      NewBearingRepository(database),
	}
}

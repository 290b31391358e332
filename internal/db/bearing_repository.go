package db

import (
	"errors"

	"github.com/terraincognita07/mindharbor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBearingNotFound = errors.New("compass bearing not found")

type BearingRepository struct {
	database *gorm.DB
}

func NewBearingRepository(database *gorm.DB) *BearingRepository {
	return &BearingRepository{database: database}
}

// Upsert replaces the user's bearing wholesale. Re-submitting the same answers
// leaves a single, identical row.
func (repo *BearingRepository) Upsert(bearing *models.CompassBearing) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"analysis",
			"primary_struggle",
			"sleep_quality",
			"stress_level",
			"support_system",
			"coping",
			"physical_activity",
			"updated_at",
		}),
	}).Create(bearing).Error
}

func (repo *BearingRepository) FindByUserID(userID string) (models.CompassBearing, error) {
	var bearing models.CompassBearing
	err := repo.database.Where("user_id = ?", userID).First(&bearing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CompassBearing{}, ErrBearingNotFound
	}
	if err != nil {
		return models.CompassBearing{}, err
	}
	return bearing, nil
}

func (repo *BearingRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.CompassBearing{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package models

import "time"

// CompassBearing is the onboarding analysis attached to a user profile. There
// is at most one per user; a new submission overwrites the previous one.
type CompassBearing struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	UserID           string    `gorm:"not null;uniqueIndex" json:"userId"`
	Analysis         string    `gorm:"not null" json:"analysis"`
	PrimaryStruggle  string    `gorm:"not null" json:"primaryStruggle"`
	SleepQuality     string    `gorm:"not null" json:"sleepQuality"`
	StressLevel      string    `gorm:"not null" json:"stressLevel"`
	SupportSystem    string    `gorm:"not null" json:"supportSystem"`
	Coping           string    `gorm:"not null" json:"coping"`
	PhysicalActivity string    `gorm:"not null" json:"physicalActivity"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Answers returns the answer fields stored on the bearing.
func (bearing CompassBearing) Answers() QuestionnaireAnswers {
	return QuestionnaireAnswers{
		PrimaryStruggle:  bearing.PrimaryStruggle,
		SleepQuality:     bearing.SleepQuality,
		StressLevel:      bearing.StressLevel,
		SupportSystem:    bearing.SupportSystem,
		Coping:           bearing.Coping,
		PhysicalActivity: bearing.PhysicalActivity,
	}
}

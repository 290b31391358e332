package models

const (
	FieldPrimaryStruggle  = "primaryStruggle"
	FieldSleepQuality     = "sleepQuality"
	FieldStressLevel      = "stressLevel"
	FieldSupportSystem    = "supportSystem"
	FieldCoping           = "coping"
	FieldPhysicalActivity = "physicalActivity"
)

const (
	DefaultPrimaryStruggle  = "wellness"
	DefaultSleepQuality     = "good"
	DefaultStressLevel      = "moderate"
	DefaultSupportSystem    = "moderate"
	DefaultCoping           = "mixed"
	DefaultPhysicalActivity = "sometimes"
)

// QuestionnaireAnswers holds the six onboarding answers. An empty string means
// the field has not been answered yet.
type QuestionnaireAnswers struct {
	PrimaryStruggle  string `json:"primaryStruggle,omitempty"`
	SleepQuality     string `json:"sleepQuality,omitempty"`
	StressLevel      string `json:"stressLevel,omitempty"`
	SupportSystem    string `json:"supportSystem,omitempty"`
	Coping           string `json:"coping,omitempty"`
	PhysicalActivity string `json:"physicalActivity,omitempty"`
}

// WithDefaults returns a copy where every unanswered field carries its
// fallback value.
func (answers QuestionnaireAnswers) WithDefaults() QuestionnaireAnswers {
	return QuestionnaireAnswers{
		PrimaryStruggle:  valueOrDefault(answers.PrimaryStruggle, DefaultPrimaryStruggle),
		SleepQuality:     valueOrDefault(answers.SleepQuality, DefaultSleepQuality),
		StressLevel:      valueOrDefault(answers.StressLevel, DefaultStressLevel),
		SupportSystem:    valueOrDefault(answers.SupportSystem, DefaultSupportSystem),
		Coping:           valueOrDefault(answers.Coping, DefaultCoping),
		PhysicalActivity: valueOrDefault(answers.PhysicalActivity, DefaultPhysicalActivity),
	}
}

// Field returns the answer stored under a questionnaire field name.
func (answers QuestionnaireAnswers) Field(name string) string {
	switch name {
	case FieldPrimaryStruggle:
		return answers.PrimaryStruggle
	case FieldSleepQuality:
		return answers.SleepQuality
	case FieldStressLevel:
		return answers.StressLevel
	case FieldSupportSystem:
		return answers.SupportSystem
	case FieldCoping:
		return answers.Coping
	case FieldPhysicalActivity:
		return answers.PhysicalActivity
	default:
		return ""
	}
}

// SetField stores value under a questionnaire field name. Unknown names are
// ignored and reported as false.
func (answers *QuestionnaireAnswers) SetField(name string, value string) bool {
	switch name {
	case FieldPrimaryStruggle:
		answers.PrimaryStruggle = value
	case FieldSleepQuality:
		answers.SleepQuality = value
	case FieldStressLevel:
		answers.StressLevel = value
	case FieldSupportSystem:
		answers.SupportSystem = value
	case FieldCoping:
		answers.Coping = value
	case FieldPhysicalActivity:
		answers.PhysicalActivity = value
	default:
		return false
	}
	return true
}

func valueOrDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

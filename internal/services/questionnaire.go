package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/models"
)

var (
	ErrUnknownStep       = errors.New("unknown questionnaire step")
	ErrStepValueRequired = errors.New("questionnaire step value required")
	ErrStepValueInvalid  = errors.New("questionnaire step value invalid")
	ErrStepLocked        = errors.New("questionnaire step locked")
	ErrDraftUnreadable   = errors.New("questionnaire draft unreadable")
)

type StepOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuestionnaireStep struct {
	Field   string       `json:"field"`
	Title   string       `json:"title"`
	Prompt  string       `json:"prompt"`
	Options []StepOption `json:"options"`
}

var questionnaireSteps = []QuestionnaireStep{
	{
		Field:  models.FieldPrimaryStruggle,
		Title:  "What brings you here",
		Prompt: "Which of these weighs on you most right now?",
		Options: []StepOption{
			{Value: "anxiety", Label: "Anxiety or worry"},
			{Value: "depression", Label: "Low mood or depression"},
			{Value: "stress", Label: "Stress and pressure"},
			{Value: "relationships", Label: "Relationships"},
			{Value: "trauma", Label: "Past trauma"},
			{Value: "grief", Label: "Grief or loss"},
			{Value: "self-esteem", Label: "Self-esteem"},
			{Value: "wellness", Label: "General wellbeing"},
		},
	},
	{
		Field:  models.FieldSleepQuality,
		Title:  "Sleep",
		Prompt: "How well have you been sleeping lately?",
		Options: []StepOption{
			{Value: "excellent", Label: "Excellent"},
			{Value: "good", Label: "Good"},
			{Value: "fair", Label: "Fair"},
			{Value: "poor", Label: "Poor"},
		},
	},
	{
		Field:  models.FieldStressLevel,
		Title:  "Stress",
		Prompt: "How would you rate your stress over the past few weeks?",
		Options: []StepOption{
			{Value: "low", Label: "Low"},
			{Value: "moderate", Label: "Moderate"},
			{Value: "high", Label: "High"},
			{Value: "severe", Label: "Severe"},
		},
	},
	{
		Field:  models.FieldSupportSystem,
		Title:  "Support",
		Prompt: "How supported do you feel by the people around you?",
		Options: []StepOption{
			{Value: "strong", Label: "Strongly supported"},
			{Value: "moderate", Label: "Somewhat supported"},
			{Value: "weak", Label: "Not very supported"},
			{Value: "none", Label: "I have no one to turn to"},
		},
	},
	{
		Field:  models.FieldCoping,
		Title:  "Coping",
		Prompt: "How are you coping with difficult moments?",
		Options: []StepOption{
			{Value: "healthy", Label: "In ways that help me"},
			{Value: "mixed", Label: "Some helpful, some not"},
			{Value: "struggling", Label: "I am struggling to cope"},
			{Value: "harmful", Label: "In ways that hurt me"},
		},
	},
	{
		Field:  models.FieldPhysicalActivity,
		Title:  "Movement",
		Prompt: "How often are you physically active?",
		Options: []StepOption{
			{Value: "daily", Label: "Every day"},
			{Value: "regular", Label: "A few times a week"},
			{Value: "sometimes", Label: "Now and then"},
			{Value: "rarely", Label: "Rarely"},
			{Value: "never", Label: "Never"},
		},
	},
}

// QuestionnaireSteps returns the ordered onboarding steps.
func QuestionnaireSteps() []QuestionnaireStep {
	steps := make([]QuestionnaireStep, len(questionnaireSteps))
	for index, step := range questionnaireSteps {
		step.Options = append([]StepOption(nil), step.Options...)
		steps[index] = step
	}
	return steps
}

func stepIndex(field string) int {
	for index, step := range questionnaireSteps {
		if step.Field == field {
			return index
		}
	}
	return -1
}

// StepValidator checks a single answer against the JSON Schema of its step.
type StepValidator struct {
	schemas map[string]*jsonschema.Schema
}

func NewStepValidator() (*StepValidator, error) {
	schemas := make(map[string]*jsonschema.Schema, len(questionnaireSteps))
	for _, step := range questionnaireSteps {
		raw, err := stepSchemaJSON(step)
		if err != nil {
			return nil, err
		}
		schema := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, schema); err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", step.Field, err)
		}
		schemas[step.Field] = schema
	}
	return &StepValidator{schemas: schemas}, nil
}

func stepSchemaJSON(step QuestionnaireStep) ([]byte, error) {
	values := make([]string, 0, len(step.Options))
	for _, option := range step.Options {
		values = append(values, option.Value)
	}
	return json.Marshal(map[string]any{
		"type":     "object",
		"required": []string{"value"},
		"properties": map[string]any{
			"value": map[string]any{
				"type": "string",
				"enum": values,
			},
		},
		"additionalProperties": false,
	})
}

func (validator *StepValidator) Validate(ctx context.Context, field string, value string) error {
	schema, ok := validator.schemas[field]
	if !ok {
		return ErrUnknownStep
	}
	if strings.TrimSpace(value) == "" {
		return ErrStepValueRequired
	}

	document, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return err
	}
	keyErrors, err := schema.ValidateBytes(ctx, document)
	if err != nil {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	if len(keyErrors) > 0 {
		return fmt.Errorf("%w: %s", ErrStepValueInvalid, keyErrors[0].Message)
	}
	return nil
}

type QuestionnaireDraft struct {
	Answers     models.QuestionnaireAnswers `json:"answers"`
	CurrentStep int                         `json:"currentStep"`
	Complete    bool                        `json:"complete"`
}

// QuestionnaireService keeps the in-progress answers of each device.
type QuestionnaireService struct {
	store     DeviceStore
	validator *StepValidator
}

func NewQuestionnaireService(store DeviceStore, validator *StepValidator) *QuestionnaireService {
	return &QuestionnaireService{store: store, validator: validator}
}

// SaveStep records one answer. A step can only be answered once every step
// before it has a value.
func (service *QuestionnaireService) SaveStep(ctx context.Context, deviceID string, field string, value string) (QuestionnaireDraft, error) {
	index := stepIndex(field)
	if index < 0 {
		return QuestionnaireDraft{}, ErrUnknownStep
	}
	value = strings.TrimSpace(value)
	if err := service.validator.Validate(ctx, field, value); err != nil {
		return QuestionnaireDraft{}, err
	}

	answers, err := service.loadAnswers(deviceID)
	if err != nil {
		return QuestionnaireDraft{}, err
	}
	if index > firstUnansweredStep(answers) {
		return QuestionnaireDraft{}, ErrStepLocked
	}

	answers.SetField(field, value)
	encoded, err := json.Marshal(answers)
	if err != nil {
		return QuestionnaireDraft{}, err
	}
	if err := service.store.Put(deviceID, models.DeviceKeyOnboardingDraft, string(encoded)); err != nil {
		return QuestionnaireDraft{}, fmt.Errorf("save questionnaire draft: %w", err)
	}
	return newDraft(answers), nil
}

func (service *QuestionnaireService) Draft(deviceID string) (QuestionnaireDraft, error) {
	answers, err := service.loadAnswers(deviceID)
	if err != nil {
		return QuestionnaireDraft{}, err
	}
	return newDraft(answers), nil
}

func (service *QuestionnaireService) ClearDraft(deviceID string) error {
	return service.store.Delete(deviceID, models.DeviceKeyOnboardingDraft)
}

func (service *QuestionnaireService) loadAnswers(deviceID string) (models.QuestionnaireAnswers, error) {
	raw, err := service.store.Get(deviceID, models.DeviceKeyOnboardingDraft)
	if errors.Is(err, db.ErrEntryNotFound) {
		return models.QuestionnaireAnswers{}, nil
	}
	if err != nil {
		return models.QuestionnaireAnswers{}, fmt.Errorf("load questionnaire draft: %w", err)
	}

	answers := models.QuestionnaireAnswers{}
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return models.QuestionnaireAnswers{}, fmt.Errorf("%w: %w", ErrDraftUnreadable, err)
	}
	return answers, nil
}

func newDraft(answers models.QuestionnaireAnswers) QuestionnaireDraft {
	current := firstUnansweredStep(answers)
	return QuestionnaireDraft{
		Answers:     answers,
		CurrentStep: current,
		Complete:    current == len(questionnaireSteps),
	}
}

func firstUnansweredStep(answers models.QuestionnaireAnswers) int {
	for index, step := range questionnaireSteps {
		if answers.Field(step.Field) == "" {
			return index
		}
	}
	return len(questionnaireSteps)
}

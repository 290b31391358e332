package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/models"
	"go.uber.org/zap"
)

var (
	ErrOnboardingUnauthenticated = errors.New("onboarding requires a signed-in user")
	ErrBearingNotFound           = errors.New("compass bearing not found")
)

const onboardingCompletedValue = "true"

type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, deviceID string) (*models.User, bool)
	AccessToken(ctx context.Context, deviceID string) (string, bool)
}

type BearingStore interface {
	Upsert(bearing *models.CompassBearing) error
	FindByUserID(userID string) (models.CompassBearing, error)
}

type BearingPusher interface {
	PushCompassBearing(ctx context.Context, accessToken string, payload hostedauth.BearingPayload) error
}

type OnboardingService struct {
	users    CurrentUserResolver
	bearings BearingStore
	devices  DeviceStore
	remote   BearingPusher
	drafts   *QuestionnaireService
	logger   *zap.Logger
	now      func() time.Time
}

func NewOnboardingService(users CurrentUserResolver, bearings BearingStore, devices DeviceStore, remote BearingPusher, drafts *QuestionnaireService, logger *zap.Logger) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{
		users:    users,
		bearings: bearings,
		devices:  devices,
		remote:   remote,
		drafts:   drafts,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitOnboarding stores the bearing derived from answers for the signed-in
// user. Only a missing user or a failed local write is reported; the remote
// copy is best effort.
func (service *OnboardingService) SubmitOnboarding(ctx context.Context, deviceID string, answers models.QuestionnaireAnswers) (*models.CompassBearing, error) {
	user, ok := service.users.ResolveCurrentUser(ctx, deviceID)
	if !ok || user == nil || user.ID == "" {
		return nil, ErrOnboardingUnauthenticated
	}

	filled := answers.WithDefaults()
	now := service.now().UTC()
	bearing := &models.CompassBearing{
		UserID:           user.ID,
		Analysis:         Analyze(answers),
		PrimaryStruggle:  filled.PrimaryStruggle,
		SleepQuality:     filled.SleepQuality,
		StressLevel:      filled.StressLevel,
		SupportSystem:    filled.SupportSystem,
		Coping:           filled.Coping,
		PhysicalActivity: filled.PhysicalActivity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := service.bearings.Upsert(bearing); err != nil {
		return nil, fmt.Errorf("save compass bearing: %w", err)
	}
	if err := service.devices.Put(deviceID, models.DeviceKeyOnboardingCompleted, onboardingCompletedValue); err != nil {
		return nil, fmt.Errorf("mark onboarding completed: %w", err)
	}

	if service.drafts != nil {
		if err := service.drafts.ClearDraft(deviceID); err != nil {
			service.logger.Debug("clear questionnaire draft", zap.String("device_id", deviceID), zap.Error(err))
		}
	}

	service.pushBearing(ctx, deviceID, bearing)
	return bearing, nil
}

// pushBearing mirrors the bearing to the server. Failures are logged at debug
// level and dropped.
func (service *OnboardingService) pushBearing(ctx context.Context, deviceID string, bearing *models.CompassBearing) {
	if service.remote == nil {
		return
	}
	token, ok := service.users.AccessToken(ctx, deviceID)
	if !ok || token == "" {
		return
	}

	answers := bearing.Answers()
	payload := hostedauth.BearingPayload{
		UserID:   bearing.UserID,
		Analysis: bearing.Analysis,
		Answers: map[string]any{
			models.FieldPrimaryStruggle:  answers.PrimaryStruggle,
			models.FieldSleepQuality:     answers.SleepQuality,
			models.FieldStressLevel:      answers.StressLevel,
			models.FieldSupportSystem:    answers.SupportSystem,
			models.FieldCoping:           answers.Coping,
			models.FieldPhysicalActivity: answers.PhysicalActivity,
		},
	}
	if err := service.remote.PushCompassBearing(ctx, token, payload); err != nil {
		service.logger.Debug("compass bearing sync skipped",
			zap.String("user_id", bearing.UserID),
			zap.Int("status", hostedauth.StatusOf(err)),
			zap.Error(err),
		)
	}
}

func (service *OnboardingService) OnboardingCompleted(deviceID string) (bool, error) {
	value, err := service.devices.Get(deviceID, models.DeviceKeyOnboardingCompleted)
	if errors.Is(err, db.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == onboardingCompletedValue, nil
}

func (service *OnboardingService) Bearing(ctx context.Context, deviceID string) (*models.CompassBearing, error) {
	user, ok := service.users.ResolveCurrentUser(ctx, deviceID)
	if !ok || user == nil || user.ID == "" {
		return nil, ErrOnboardingUnauthenticated
	}

	bearing, err := service.bearings.FindByUserID(user.ID)
	if errors.Is(err, db.ErrBearingNotFound) {
		return nil, ErrBearingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bearing, nil
}

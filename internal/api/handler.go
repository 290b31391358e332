package api

import (
	"errors"

	"github.com/terraincognita07/mindharbor/internal/models"
	"github.com/terraincognita07/mindharbor/internal/services"
	"go.uber.org/zap"
)

type ContentCatalog interface {
	Posts() []models.BlogPost
	Post(id string) (models.BlogPost, error)
	Profiles() []models.UserProfile
	Profile(id string) (models.UserProfile, error)
	Navigators() []models.Navigator
	Navigator(id string) (models.Navigator, error)
	Appointments(specialty string) []models.Appointment
}

type Dependencies struct {
	Auth          *services.AuthService
	Questionnaire *services.QuestionnaireService
	Onboarding    *services.OnboardingService
	Chat          *services.ChatService
	Content       ContentCatalog
	SecretKey     []byte
	CookieSecure  bool
	Logger        *zap.Logger
}

type Handler struct {
	auth          *services.AuthService
	questionnaire *services.QuestionnaireService
	onboarding    *services.OnboardingService
	chat          *services.ChatService
	content       ContentCatalog
	secretKey     []byte
	cookieSecure  bool
	loginLimiter  *attemptLimiter
	logger        *zap.Logger
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if len(deps.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if deps.Auth == nil || deps.Questionnaire == nil || deps.Onboarding == nil || deps.Chat == nil || deps.Content == nil {
		return nil, errors.New("handler services are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		auth:          deps.Auth,
		questionnaire: deps.Questionnaire,
		onboarding:    deps.Onboarding,
		chat:          deps.Chat,
		content:       deps.Content,
		secretKey:     deps.SecretKey,
		cookieSecure:  deps.CookieSecure,
		loginLimiter:  newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		logger:        logger,
	}, nil
}

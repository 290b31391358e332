package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/models"
	"go.uber.org/zap"
)

const (
	messageCredentialsInvalid = "Enter a valid email address and password."
	messageProviderDown       = "The sign-in service could not be reached. Please try again."
	messageSessionNotStored   = "Your session could not be saved on this device. Please try again."
)

// AuthError is the only error the auth flow shows to people. Message is safe to
// render as-is.
type AuthError struct {
	Message string
	Err     error
}

func (err *AuthError) Error() string {
	return err.Message
}

func (err *AuthError) Unwrap() error {
	return err.Err
}

type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email string, password string) (*hostedauth.Session, error)
	SignUp(ctx context.Context, email string, password string, name string) (*hostedauth.Session, error)
	GetUser(ctx context.Context, accessToken string) (*hostedauth.ProviderUser, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ServerFunctions are the backend functions that sit in front of the provider.
type ServerFunctions interface {
	ProfileFetcher
	ServerSignup(ctx context.Context, email string, password string, name string) (*hostedauth.Session, error)
}

type AuthService struct {
	provider  AuthProvider
	functions ServerFunctions
	sessions  *SessionRegistry
	tokens    *TokenVault
	names     *NameResolver
	logger    *zap.Logger
}

func NewAuthService(provider AuthProvider, functions ServerFunctions, sessions *SessionRegistry, tokens *TokenVault, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		provider:  provider,
		functions: functions,
		sessions:  sessions,
		tokens:    tokens,
		names:     DefaultNameResolver(functions, logger),
		logger:    logger,
	}
}

func (service *AuthService) State(deviceID string) SessionState {
	return service.sessions.State(deviceID)
}

// ResolveCurrentUser returns the signed-in user of a device. Missing sessions
// and every lookup failure end in "no user"; nothing is returned as an error.
func (service *AuthService) ResolveCurrentUser(ctx context.Context, deviceID string) (*models.User, bool) {
	session, ok := service.currentSession(ctx, deviceID)
	if !ok {
		return nil, false
	}
	return service.userFromSession(ctx, session, ""), true
}

// AccessToken returns the bearer token of the device's current session.
func (service *AuthService) AccessToken(ctx context.Context, deviceID string) (string, bool) {
	session, ok := service.currentSession(ctx, deviceID)
	if !ok {
		return "", false
	}
	return session.AccessToken, true
}

// Signup registers through the server function first and only falls back to
// direct provider signup when that attempt fails outright. A successful server
// signup without a session is completed by signing in, never by registering
// a second time.
func (service *AuthService) Signup(ctx context.Context, deviceID string, email string, password string, name string) (*models.User, error) {
	email, password, err := NormalizeCredentialsInput(email, password)
	if err != nil {
		return nil, &AuthError{Message: messageCredentialsInvalid, Err: err}
	}
	name = NormalizeDisplayName(name)

	service.sessions.Begin(deviceID)

	session, err := service.functions.ServerSignup(ctx, email, password, name)
	if err != nil {
		service.logger.Debug("server signup failed, using provider signup",
			zap.Int("status", hostedauth.StatusOf(err)),
			zap.Error(err),
		)
		session, err = service.provider.SignUp(ctx, email, password, name)
		if err != nil {
			service.sessions.Abort(deviceID)
			return nil, authErrorFrom(err)
		}
	}

	if session.AccessToken == "" {
		session, err = service.provider.SignInWithPassword(ctx, email, password)
		if err != nil {
			service.sessions.Abort(deviceID)
			return nil, authErrorFrom(err)
		}
	}

	if err := service.establish(deviceID, session); err != nil {
		return nil, err
	}
	return service.userFromSession(ctx, session, name), nil
}

func (service *AuthService) Login(ctx context.Context, deviceID string, email string, password string) (*models.User, error) {
	email, password, err := NormalizeCredentialsInput(email, password)
	if err != nil {
		return nil, &AuthError{Message: messageCredentialsInvalid, Err: err}
	}

	service.sessions.Begin(deviceID)

	session, err := service.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		service.sessions.Abort(deviceID)
		return nil, authErrorFrom(err)
	}
	if err := service.establish(deviceID, session); err != nil {
		return nil, err
	}
	return service.userFromSession(ctx, session, ""), nil
}

// Logout signs the session out at the provider and always drops the device's
// local session state, including when the provider call fails.
func (service *AuthService) Logout(ctx context.Context, deviceID string) error {
	token := ""
	if session, ok := service.sessions.Get(deviceID); ok {
		token = session.AccessToken
	} else if stored, err := service.tokens.Load(deviceID); err == nil {
		token = stored
	}

	var signOutErr error
	if token != "" {
		signOutErr = service.provider.SignOut(ctx, token)
	}

	service.sessions.Clear(deviceID)
	if err := service.tokens.Clear(deviceID); err != nil {
		service.logger.Warn("clear persisted token", zap.String("device_id", deviceID), zap.Error(err))
	}

	if signOutErr != nil {
		return authErrorFrom(signOutErr)
	}
	return nil
}

func (service *AuthService) establish(deviceID string, session *hostedauth.Session) error {
	if err := service.tokens.Save(deviceID, session.AccessToken); err != nil {
		service.sessions.Abort(deviceID)
		return &AuthError{Message: messageSessionNotStored, Err: err}
	}
	service.sessions.Store(deviceID, session)
	return nil
}

// currentSession reads the registry and, after a restart, rehydrates it from
// the persisted token.
func (service *AuthService) currentSession(ctx context.Context, deviceID string) (*hostedauth.Session, bool) {
	if session, ok := service.sessions.Get(deviceID); ok {
		return session, true
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, false
	}

	token, err := service.tokens.Load(deviceID)
	if err != nil {
		service.logger.Debug("load persisted token", zap.String("device_id", deviceID), zap.Error(err))
		return nil, false
	}
	if token == "" {
		return nil, false
	}

	user, err := service.provider.GetUser(ctx, token)
	if err != nil {
		status := hostedauth.StatusOf(err)
		service.logger.Debug("persisted token rejected", zap.Int("status", status), zap.Error(err))
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			if clearErr := service.tokens.Clear(deviceID); clearErr != nil {
				service.logger.Debug("clear rejected token", zap.Error(clearErr))
			}
		}
		return nil, false
	}

	session := &hostedauth.Session{AccessToken: token, User: *user}
	service.sessions.Store(deviceID, session)
	return session, true
}

func (service *AuthService) userFromSession(ctx context.Context, session *hostedauth.Session, knownName string) *models.User {
	name := knownName
	if name == "" {
		name = service.names.Resolve(ctx, session)
	}
	return &models.User{
		ID:    session.User.ID,
		Email: session.User.Email,
		Name:  name,
	}
}

func authErrorFrom(err error) *AuthError {
	var apiErr *hostedauth.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return &AuthError{Message: apiErr.Message, Err: err}
	}
	return &AuthError{Message: messageProviderDown, Err: err}
}

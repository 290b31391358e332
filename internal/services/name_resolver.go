package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"go.uber.org/zap"
)

type ProfileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string, userID string) (*hostedauth.Profile, error)
}

// NameStrategy proposes a display name for a session. An empty result means
// "no opinion" and the next strategy is tried.
type NameStrategy interface {
	ResolveName(ctx context.Context, session *hostedauth.Session) string
}

type NameStrategyFunc func(ctx context.Context, session *hostedauth.Session) string

func (fn NameStrategyFunc) ResolveName(ctx context.Context, session *hostedauth.Session) string {
	return fn(ctx, session)
}

// NameResolver walks its strategies in order and keeps the first non-empty name.
type NameResolver struct {
	strategies []NameStrategy
}

func NewNameResolver(strategies ...NameStrategy) *NameResolver {
	return &NameResolver{strategies: strategies}
}

// DefaultNameResolver tries the remote profile, then account metadata, then
// the email local-part.
func DefaultNameResolver(profiles ProfileFetcher, logger *zap.Logger) *NameResolver {
	return NewNameResolver(
		RemoteProfileName(profiles, logger),
		NameStrategyFunc(metadataName),
		NameStrategyFunc(emailLocalPartName),
	)
}

func (resolver *NameResolver) Resolve(ctx context.Context, session *hostedauth.Session) string {
	if session == nil {
		return ""
	}
	for _, strategy := range resolver.strategies {
		if name := strings.TrimSpace(strategy.ResolveName(ctx, session)); name != "" {
			return name
		}
	}
	return ""
}

// RemoteProfileName asks the server profile endpoint for the name. Every
// failure here is an expected fallback path: it is logged at debug level only
// and never reaches the caller.
func RemoteProfileName(profiles ProfileFetcher, logger *zap.Logger) NameStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NameStrategyFunc(func(ctx context.Context, session *hostedauth.Session) string {
		if profiles == nil || session.AccessToken == "" || session.User.ID == "" {
			return ""
		}
		profile, err := profiles.FetchProfile(ctx, session.AccessToken, session.User.ID)
		if err != nil {
			logger.Debug("profile lookup fell back",
				zap.String("user_id", session.User.ID),
				zap.Int("status", hostedauth.StatusOf(err)),
				zap.Error(err),
			)
			return ""
		}
		if profile == nil {
			return ""
		}
		return profile.Name
	})
}

func metadataName(_ context.Context, session *hostedauth.Session) string {
	return session.User.MetadataName()
}

func emailLocalPartName(_ context.Context, session *hostedauth.Session) string {
	return EmailLocalPart(session.User.Email)
}

// EmailLocalPart returns the text before the first "@".
func EmailLocalPart(email string) string {
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

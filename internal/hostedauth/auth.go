package hostedauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ProviderUser is the account record kept by the hosted provider.
type ProviderUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// MetadataName returns the display name stored in account metadata, if any.
func (user ProviderUser) MetadataName() string {
	for _, key := range []string{"name", "full_name"} {
		if value, ok := user.Metadata[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Session is an authenticated provider session. AccessToken is empty when the
// provider created an account without signing it in.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in,omitempty"`
	User         ProviderUser `json:"user"`
}

type passwordCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// signupResponse covers both provider shapes: a full session, or a bare user
// when email confirmation is pending.
type signupResponse struct {
	Session
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (client *Client) SignInWithPassword(ctx context.Context, email string, password string) (*Session, error) {
	session := &Session{}
	query := url.Values{"grant_type": {"password"}}
	if err := client.do(ctx, http.MethodPost, "/auth/v1/token", query, "", passwordCredentials{
		Email:    email,
		Password: password,
	}, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignUp registers an account directly with the provider.
func (client *Client) SignUp(ctx context.Context, email string, password string, name string) (*Session, error) {
	payload := signupRequest{Email: email, Password: password}
	if strings.TrimSpace(name) != "" {
		payload.Data = map[string]any{"name": strings.TrimSpace(name)}
	}

	response := signupResponse{}
	if err := client.do(ctx, http.MethodPost, "/auth/v1/signup", nil, "", payload, &response); err != nil {
		return nil, err
	}

	session := response.Session
	if session.User.ID == "" {
		session.User = ProviderUser{ID: response.ID, Email: response.Email, Metadata: payload.Data}
	}
	return &session, nil
}

// GetUser returns the account that owns accessToken.
func (client *Client) GetUser(ctx context.Context, accessToken string) (*ProviderUser, error) {
	user := &ProviderUser{}
	if err := client.do(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (client *Client) SignOut(ctx context.Context, accessToken string) error {
	return client.do(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil)
}

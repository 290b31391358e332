package hostedauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const functionsPrefix = "/functions/v1/server"

// Profile is the remote profile document. Only the name is read; the rest of
// the document is ignored.
type Profile struct {
	Name string `json:"name"`
}

type serverSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type serverSignupResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token,omitempty"`
	} `json:"session"`
}

// BearingPayload is the body pushed to the remote compass bearing endpoint.
type BearingPayload struct {
	UserID   string         `json:"userId"`
	Answers  map[string]any `json:"answers"`
	Analysis string         `json:"analysis"`
}

// FetchProfile reads the remote profile of userID on behalf of accessToken.
func (client *Client) FetchProfile(ctx context.Context, accessToken string, userID string) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	profile := &Profile{}
	path := functionsPrefix + "/user/" + url.PathEscape(userID)
	if err := client.do(ctx, http.MethodGet, path, nil, accessToken, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ServerSignup registers an account through the server function, which also
// creates the profile document. A 2xx answer always counts as a created
// account; when its body is unreadable the returned session has no token.
func (client *Client) ServerSignup(ctx context.Context, email string, password string, name string) (*Session, error) {
	response := serverSignupResponse{}
	err := client.do(ctx, http.MethodPost, functionsPrefix+"/auth/signup", nil, "", serverSignupRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, &response)
	if errors.Is(err, ErrUndecodableResponse) {
		return &Session{User: ProviderUser{Email: email, Metadata: map[string]any{"name": name}}}, nil
	}
	if err != nil {
		return nil, err
	}

	if response.User.Email == "" {
		response.User.Email = email
	}
	return &Session{
		AccessToken:  response.Session.AccessToken,
		RefreshToken: response.Session.RefreshToken,
		User: ProviderUser{
			ID:       response.User.ID,
			Email:    response.User.Email,
			Metadata: map[string]any{"name": name},
		},
	}, nil
}

// PushCompassBearing uploads a bearing. The response body is ignored.
func (client *Client) PushCompassBearing(ctx context.Context, accessToken string, payload BearingPayload) error {
	return client.do(ctx, http.MethodPost, functionsPrefix+"/user/compass-bearing", nil, accessToken, payload, nil)
}

// Package hostedauth talks to the hosted authentication provider and to the
// server functions deployed next to it.
package hostedauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBodyBytes = 64 << 10

// ErrUndecodableResponse marks a 2xx answer whose body could not be decoded.
// The request itself succeeded on the provider side.
var ErrUndecodableResponse = errors.New("undecodable provider response")

// Config describes how to reach the hosted provider.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	AnonKey string        `yaml:"anon_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type Client struct {
	baseURL *url.URL
	anonKey string
	http    *http.Client
}

// NewClient builds a client for cfg. A nil httpClient gets one with
// cfg.Timeout applied; zero means no client-side timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	base, err := url.ParseRequestURI(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid hosted base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid hosted base url scheme %q", base.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL: base,
		anonKey: strings.TrimSpace(cfg.AnonKey),
		http:    httpClient,
	}, nil
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("hosted provider returned %d: %s", err.Status, err.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// APIError (network failures, decode failures).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the provider message carried by err, falling back to
// err.Error().
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func (client *Client) endpoint(path string, query url.Values) string {
	target := *client.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String()
}

// do sends a JSON request and decodes a JSON answer into out when out is not
// nil. bearer defaults to the anon key.
func (client *Client) do(ctx context.Context, method string, path string, query url.Values, bearer string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.anonKey != "" {
		request.Header.Set("apikey", client.anonKey)
	}
	if bearer == "" {
		bearer = client.anonKey
	}
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &APIError{Status: response.StatusCode, Message: readErrorMessage(response)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", path, ErrUndecodableResponse, err)
	}
	return nil
}

func readErrorMessage(response *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))

	var payload map[string]any
	if json.Unmarshal(raw, &payload) == nil {
		for _, key := range []string{"error_description", "msg", "message", "error"} {
			if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 {
		return text
	}
	return http.StatusText(response.StatusCode)
}

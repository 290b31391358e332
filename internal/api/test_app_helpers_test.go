package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mindharbor/internal/content"
	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/security"
	"github.com/terraincognita07/mindharbor/internal/services"
	"go.uber.org/zap"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

// fakeHosted stands in for the hosted auth provider and its server functions.
type fakeHosted struct {
	mu            sync.Mutex
	password      string
	profileStatus int
	serverSignup  int
	signOutStatus int
	pushStatus    int
	signups       int
	pushes        []map[string]any
	signedOut     int
}

func (fake *fakeHosted) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	user := map[string]any{
		"id":            "user-1",
		"email":         "river@example.com",
		"user_metadata": map[string]any{"name": "River"},
	}

	switch {
	case r.URL.Path == "/auth/v1/token":
		body := map[string]string{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != fake.password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1", "user": user})

	case r.URL.Path == "/functions/v1/server/auth/signup":
		if fake.serverSignup != 0 && fake.serverSignup != http.StatusOK {
			w.WriteHeader(fake.serverSignup)
			_, _ = w.Write([]byte(`{"error":"server signup unavailable"}`))
			return
		}
		fake.signups++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]any{"id": "user-1", "email": "river@example.com"},
			"session": map[string]any{"access_token": "token-1"},
		})

	case r.URL.Path == "/auth/v1/signup":
		fake.signups++
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "token-2", "user": user})

	case r.URL.Path == "/auth/v1/user":
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(user)

	case r.URL.Path == "/auth/v1/logout":
		fake.signedOut++
		if fake.signOutStatus != 0 {
			w.WriteHeader(fake.signOutStatus)
			_, _ = w.Write([]byte(`{"msg":"sign-out failed"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == "/functions/v1/server/user/compass-bearing":
		payload := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		fake.pushes = append(fake.pushes, payload)
		if fake.pushStatus != 0 {
			w.WriteHeader(fake.pushStatus)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))

	case strings.HasPrefix(r.URL.Path, "/functions/v1/server/user/"):
		if fake.profileStatus != 0 && fake.profileStatus != http.StatusOK {
			w.WriteHeader(fake.profileStatus)
			return
		}
		_, _ = w.Write([]byte(`{"name":"River Stone"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testApp struct {
	app    *fiber.App
	hosted *fakeHosted
	repos  *db.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	hosted := &fakeHosted{password: "Secret123"}
	server := httptest.NewServer(hosted)
	t.Cleanup(server.Close)

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "mindharbor-test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	repos := db.NewRepositories(database)

	client, err := hostedauth.NewClient(hostedauth.Config{BaseURL: server.URL, AnonKey: "anon"}, server.Client())
	if err != nil {
		t.Fatalf("hosted client: %v", err)
	}
	sealer, err := security.NewSealer([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	validator, err := services.NewStepValidator()
	if err != nil {
		t.Fatalf("step validator: %v", err)
	}
	catalog, err := content.NewStore("", nil)
	if err != nil {
		t.Fatalf("content: %v", err)
	}

	authService := services.NewAuthService(
		client,
		client,
		services.NewSessionRegistry(),
		services.NewTokenVault(repos.DeviceEntries, sealer),
		nil,
	)
	questionnaire := services.NewQuestionnaireService(repos.DeviceEntries, validator)
	handler, err := NewHandler(Dependencies{
		Auth:          authService,
		Questionnaire: questionnaire,
		Onboarding:    services.NewOnboardingService(authService, repos.Bearings, repos.DeviceEntries, client, questionnaire, nil),
		Chat:          services.NewChatService(nil, 0, nil),
		Content:       catalog,
		SecretKey:     []byte(testSecretKey),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, hosted: hosted, repos: repos}
}

// do sends a request carrying the device cookie and returns status, decoded
// JSON body and the device cookie to reuse.
func (fixture *testApp) do(t *testing.T, method string, path string, deviceCookie string, body any) (int, map[string]any, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if deviceCookie != "" {
		request.AddCookie(&http.Cookie{Name: deviceCookieName, Value: deviceCookie})
	}

	response, err := fixture.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	if issued := responseCookieValue(response.Cookies(), deviceCookieName); issued != "" {
		deviceCookie = issued
	}

	payload := map[string]any{}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode body %q: %v", string(raw), err)
		}
	}
	return response.StatusCode, payload, deviceCookie
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func nestedString(payload map[string]any, keys ...string) string {
	var current any = payload
	for _, key := range keys {
		object, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = object[key]
	}
	value, _ := current.(string)
	return value
}

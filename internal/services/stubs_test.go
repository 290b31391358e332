package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/models"
)

type memoryDeviceStore struct {
	mu      sync.Mutex
	entries map[string]string
	putErr  error
}

func newMemoryDeviceStore() *memoryDeviceStore {
	return &memoryDeviceStore{entries: make(map[string]string)}
}

func (store *memoryDeviceStore) Get(deviceID string, key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.entries[deviceID+"/"+key]
	if !ok {
		return "", db.ErrEntryNotFound
	}
	return value, nil
}

func (store *memoryDeviceStore) Put(deviceID string, key string, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.putErr != nil {
		return store.putErr
	}
	store.entries[deviceID+"/"+key] = value
	return nil
}

func (store *memoryDeviceStore) Delete(deviceID string, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.entries, deviceID+"/"+key)
	return nil
}

func (store *memoryDeviceStore) has(deviceID string, key string) bool {
	_, err := store.Get(deviceID, key)
	return err == nil
}

// prefixSealer marks values instead of encrypting them.
type prefixSealer struct{}

func (prefixSealer) Seal(purpose string, plaintext []byte) (string, error) {
	return "sealed:" + purpose + ":" + string(plaintext), nil
}

func (prefixSealer) Open(purpose string, raw string) ([]byte, error) {
	prefix := "sealed:" + purpose + ":"
	if !strings.HasPrefix(raw, prefix) {
		return nil, errors.New("not sealed")
	}
	return []byte(strings.TrimPrefix(raw, prefix)), nil
}

type stubProvider struct {
	signInSession *hostedauth.Session
	signInErr     error
	signUpSession *hostedauth.Session
	signUpErr     error
	user          *hostedauth.ProviderUser
	getUserErr    error
	signOutErr    error

	signInCalls  int
	signUpCalls  int
	signOutCalls int
	signedOut    []string
}

func (stub *stubProvider) SignInWithPassword(context.Context, string, string) (*hostedauth.Session, error) {
	stub.signInCalls++
	if stub.signInErr != nil {
		return nil, stub.signInErr
	}
	return stub.signInSession, nil
}

func (stub *stubProvider) SignUp(context.Context, string, string, string) (*hostedauth.Session, error) {
	stub.signUpCalls++
	if stub.signUpErr != nil {
		return nil, stub.signUpErr
	}
	return stub.signUpSession, nil
}

func (stub *stubProvider) GetUser(context.Context, string) (*hostedauth.ProviderUser, error) {
	if stub.getUserErr != nil {
		return nil, stub.getUserErr
	}
	return stub.user, nil
}

func (stub *stubProvider) SignOut(_ context.Context, accessToken string) error {
	stub.signOutCalls++
	stub.signedOut = append(stub.signedOut, accessToken)
	return stub.signOutErr
}

type stubFunctions struct {
	profile       *hostedauth.Profile
	profileErr    error
	signupSession *hostedauth.Session
	signupErr     error
	pushErr       error

	profileCalls int
	signupCalls  int
	pushed       []hostedauth.BearingPayload
	pushTokens   []string
}

func (stub *stubFunctions) FetchProfile(context.Context, string, string) (*hostedauth.Profile, error) {
	stub.profileCalls++
	if stub.profileErr != nil {
		return nil, stub.profileErr
	}
	return stub.profile, nil
}

func (stub *stubFunctions) ServerSignup(context.Context, string, string, string) (*hostedauth.Session, error) {
	stub.signupCalls++
	if stub.signupErr != nil {
		return nil, stub.signupErr
	}
	return stub.signupSession, nil
}

func (stub *stubFunctions) PushCompassBearing(_ context.Context, accessToken string, payload hostedauth.BearingPayload) error {
	stub.pushTokens = append(stub.pushTokens, accessToken)
	stub.pushed = append(stub.pushed, payload)
	return stub.pushErr
}

type memoryBearingStore struct {
	bearings  map[string]models.CompassBearing
	upsertErr error
	upserts   int
}

func newMemoryBearingStore() *memoryBearingStore {
	return &memoryBearingStore{bearings: make(map[string]models.CompassBearing)}
}

func (store *memoryBearingStore) Upsert(bearing *models.CompassBearing) error {
	if store.upsertErr != nil {
		return store.upsertErr
	}
	store.upserts++
	store.bearings[bearing.UserID] = *bearing
	return nil
}

func (store *memoryBearingStore) FindByUserID(userID string) (models.CompassBearing, error) {
	bearing, ok := store.bearings[userID]
	if !ok {
		return models.CompassBearing{}, db.ErrBearingNotFound
	}
	return bearing, nil
}

func testSession(token string, id string, email string, metadata map[string]any) *hostedauth.Session {
	return &hostedauth.Session{
		AccessToken: token,
		User:        hostedauth.ProviderUser{ID: id, Email: email, Metadata: metadata},
	}
}

type authFixture struct {
	provider  *stubProvider
	functions *stubFunctions
	store     *memoryDeviceStore
	sessions  *SessionRegistry
	service   *AuthService
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		provider:  &stubProvider{},
		functions: &stubFunctions{},
		store:     newMemoryDeviceStore(),
		sessions:  NewSessionRegistry(),
	}
	fixture.service = NewAuthService(
		fixture.provider,
		fixture.functions,
		fixture.sessions,
		NewTokenVault(fixture.store, prefixSealer{}),
		nil,
	)
	return fixture
}

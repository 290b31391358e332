package services

import (
	"sync"

	"github.com/terraincognita07/mindharbor/internal/hostedauth"
)

type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticating  SessionState = "authenticating"
	SessionAuthenticated   SessionState = "authenticated"
)

type sessionSlot struct {
	state   SessionState
	session *hostedauth.Session
}

// SessionRegistry holds the live provider session of every device in process
// memory. Nothing in it survives a restart; the persisted access token is what
// rehydrates a device afterwards.
type SessionRegistry struct {
	mu    sync.Mutex
	slots map[string]sessionSlot
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{slots: make(map[string]sessionSlot)}
}

// Get returns the authenticated session of a device.
func (registry *SessionRegistry) Get(deviceID string) (*hostedauth.Session, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slot, ok := registry.slots[deviceID]
	if !ok || slot.state != SessionAuthenticated || slot.session == nil {
		return nil, false
	}
	copied := *slot.session
	return &copied, true
}

func (registry *SessionRegistry) State(deviceID string) SessionState {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slot, ok := registry.slots[deviceID]
	if !ok {
		return SessionUnauthenticated
	}
	return slot.state
}

// Begin moves a device into the authenticating state. An existing session is
// kept until Store or Abort settles the attempt.
func (registry *SessionRegistry) Begin(deviceID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slot := registry.slots[deviceID]
	slot.state = SessionAuthenticating
	registry.slots[deviceID] = slot
}

func (registry *SessionRegistry) Store(deviceID string, session *hostedauth.Session) {
	if session == nil {
		registry.Abort(deviceID)
		return
	}
	copied := *session

	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.slots[deviceID] = sessionSlot{state: SessionAuthenticated, session: &copied}
}

// Abort ends a failed attempt. A device that was signed in before the attempt
// stays signed in.
func (registry *SessionRegistry) Abort(deviceID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slot, ok := registry.slots[deviceID]
	if !ok {
		return
	}
	if slot.session != nil {
		slot.state = SessionAuthenticated
		registry.slots[deviceID] = slot
		return
	}
	delete(registry.slots, deviceID)
}

func (registry *SessionRegistry) Clear(deviceID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.slots, deviceID)
}

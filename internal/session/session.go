// Package session issues reconnect tokens, stores a disconnected player's
// state for the reconnection window, and sweeps sessions whose window has
// lapsed.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dropzone/internal/entities"
)

// ReconnectError enumerates the distinct reasons a reconnect attempt can
// fail, mirrored back to the client in the reconnect_response payload.
type ReconnectError string

const (
	ReasonInvalid        ReconnectError = "Invalid"
	ReasonExpired        ReconnectError = "Expired"
	ReasonAlreadyActive  ReconnectError = "AlreadyActive"
	ReasonNoSavedState   ReconnectError = "NoSavedState"
)

// Error implements the error interface so callers can propagate a
// ReconnectError through normal Go error handling.
func (r ReconnectError) Error() string { return string(r) }

// SavedState is the deep-copied player record retained across a
// disconnect, along with enough context to restore the player into the
// right place on reconnect.
type SavedState struct {
	Player  *entities.Player
	WorldID string
	RoomID  string
}

// Session tracks one player's connection lifecycle across disconnects and
// reconnects.
type Session struct {
	Token      string
	PlayerID   string
	Active     bool
	SavedState *SavedState
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Manager owns the live set of sessions, keyed by both token and player id.
type Manager struct {
	mu       sync.Mutex
	byToken  map[string]*Session
	byPlayer map[string]*Session
	ttl      time.Duration
}

// NewManager constructs a session manager with the given saved-state TTL
// (spec default 5 minutes).
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		byToken:  make(map[string]*Session),
		byPlayer: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create issues a fresh 128-bit token for a newly accepted connection.
func (m *Manager) Create(playerID string, now time.Time) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &Session{
		Token:     uuid.NewString(),
		PlayerID:  playerID,
		Active:    true,
		CreatedAt: now,
	}
	m.byToken[sess.Token] = sess
	m.byPlayer[playerID] = sess
	return sess
}

// Disconnect marks a session inactive, stores the player's deep-copied
// state, and starts the reconnection window.
func (m *Manager) Disconnect(playerID string, worldID, roomID string, player *entities.Player, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.byPlayer[playerID]
	if !ok {
		return
	}
	sess.Active = false
	sess.SavedState = &SavedState{Player: player.Clone(), WorldID: worldID, RoomID: roomID}
	sess.ExpiresAt = now.Add(m.ttl)
}

// Reconnect validates a reconnect token and, on success, reactivates the
// session and returns its saved state for the caller to restore into the
// world or lobby.
func (m *Manager) Reconnect(token string, now time.Time) (*Session, *SavedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.byToken[token]
	if !ok {
		return nil, nil, ReasonInvalid
	}
	if sess.Active {
		return nil, nil, ReasonAlreadyActive
	}
	if now.After(sess.ExpiresAt) {
		return nil, nil, ReasonExpired
	}
	if sess.SavedState == nil {
		return nil, nil, ReasonNoSavedState
	}

	saved := sess.SavedState
	sess.Active = true
	sess.SavedState = nil
	return sess, saved, nil
}

// Lookup returns the session bound to playerID, if any.
func (m *Manager) Lookup(playerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byPlayer[playerID]
	return sess, ok
}

// Sweep purges sessions whose reconnection window has lapsed, returning
// the player ids removed.
func (m *Manager) Sweep(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged []string
	for token, sess := range m.byToken {
		if sess.Active || sess.ExpiresAt.IsZero() {
			continue
		}
		if now.After(sess.ExpiresAt) {
			delete(m.byToken, token)
			delete(m.byPlayer, sess.PlayerID)
			purged = append(purged, sess.PlayerID)
		}
	}
	return purged
}

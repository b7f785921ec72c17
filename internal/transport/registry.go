// Package transport runs the UDP socket loop: datagram framing via
// internal/wire, per-endpoint rate limiting, a reliability overlay for
// messages that require acknowledgement, and a heartbeat reaper that drops
// endpoints that go quiet.
package transport

import (
	"net"
	"sync"
	"time"
)

// endpointState tracks everything the transport needs to know about one
// remote UDP address between datagrams.
type endpointState struct {
	addr         *net.UDPAddr
	playerID     string
	limiter      *endpointLimiter
	pending      map[uint32]*pendingMessage
	lastSeen     time.Time
	lastInputSeq uint32
}

// Registry maps player ids and socket addresses to live endpoint state. A
// player may rebind its address across a reconnect, so lookups are kept by
// both key.
type Registry struct {
	mu        sync.Mutex
	byPlayer  map[string]*endpointState
	byAddr    map[string]*endpointState
	rateCfg   RateLimitConfig
}

// NewRegistry constructs an empty endpoint registry.
func NewRegistry(rateCfg RateLimitConfig) *Registry {
	return &Registry{
		byPlayer: make(map[string]*endpointState),
		byAddr:   make(map[string]*endpointState),
		rateCfg:  rateCfg,
	}
}

func addrKey(addr *net.UDPAddr) string {
	return addr.String()
}

// Bind associates a player id with a socket address, replacing any prior
// binding for either key. Returns the (possibly new) endpoint state.
func (r *Registry) Bind(playerID string, addr *net.UDPAddr, now time.Time) *endpointState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPlayer[playerID]; ok {
		delete(r.byAddr, addrKey(existing.addr))
	}

	state := &endpointState{
		addr:     addr,
		playerID: playerID,
		limiter:  newEndpointLimiter(r.rateCfg),
		pending:  make(map[uint32]*pendingMessage),
		lastSeen: now,
	}
	r.byPlayer[playerID] = state
	r.byAddr[addrKey(addr)] = state
	return state
}

// Lookup returns the endpoint state bound to addr, if any.
func (r *Registry) Lookup(addr *net.UDPAddr) (*endpointState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.byAddr[addrKey(addr)]
	return state, ok
}

// ByPlayer returns the endpoint state bound to playerID, if any.
func (r *Registry) ByPlayer(playerID string) (*endpointState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.byPlayer[playerID]
	return state, ok
}

// Touch records that a datagram was just received from playerID.
func (r *Registry) Touch(playerID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.byPlayer[playerID]; ok {
		state.lastSeen = now
	}
}

// Remove drops a player's endpoint binding entirely (disconnect/expiry).
func (r *Registry) Remove(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.byPlayer[playerID]; ok {
		delete(r.byAddr, addrKey(state.addr))
		delete(r.byPlayer, playerID)
	}
}

// Stale returns the player ids whose last-seen datagram is older than
// timeout as of now.
func (r *Registry) Stale(now time.Time, timeout time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []string
	for playerID, state := range r.byPlayer {
		if now.Sub(state.lastSeen) > timeout {
			stale = append(stale, playerID)
		}
	}
	return stale
}

// AddrFor returns the socket address currently bound to playerID, if any.
func (r *Registry) AddrFor(playerID string) (*net.UDPAddr, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	return state.addr, true
}

// LastSeen returns the time of the last datagram received from playerID.
func (r *Registry) LastSeen(playerID string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.byPlayer[playerID]
	if !ok {
		return time.Time{}, false
	}
	return state.lastSeen, true
}

// Snapshot returns a copy of the currently bound player ids, for callers
// that want to broadcast without holding the registry lock.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byPlayer))
	for playerID := range r.byPlayer {
		ids = append(ids, playerID)
	}
	return ids
}

package transport

import (
	"time"

	"dropzone/internal/wire"
)

// pendingMessage is an outbound reliable datagram awaiting acknowledgement.
type pendingMessage struct {
	messageID string
	raw       []byte
	sentAt    time.Time
	attempts  int
}

// ReliabilityConfig controls the retry cadence for reliable sends.
type ReliabilityConfig struct {
	RetryDelay time.Duration
	MaxRetries int
}

// DefaultReliabilityConfig returns the retry window derived from
// ReliableMessageRetries (spec default 3).
func DefaultReliabilityConfig(maxRetries int) ReliabilityConfig {
	return ReliabilityConfig{RetryDelay: 200 * time.Millisecond, MaxRetries: maxRetries}
}

// trackPending records a reliable send so it can be resent or expired later.
func (s *endpointState) trackPending(messageID string, raw []byte, now time.Time) {
	s.pending[messageID2uint32(messageID)] = &pendingMessage{
		messageID: messageID,
		raw:       raw,
		sentAt:    now,
	}
}

// messageID2uint32 hashes a message id into the pending map's key space.
// Message ids are server-generated UUIDs; a numeric key keeps the pending
// map consistent with the rest of the transport's uint32-keyed bookkeeping.
func messageID2uint32(id string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	return h
}

// acknowledge removes a pending reliable message once the peer confirms
// receipt via message_ack.
func (s *endpointState) acknowledge(messageID string) {
	delete(s.pending, messageID2uint32(messageID))
}

// duePending returns pending messages that have waited past cfg.RetryDelay
// and have not yet exhausted cfg.MaxRetries, along with any that have
// exhausted retries (for the caller to drop and report).
func (s *endpointState) duePending(now time.Time, cfg ReliabilityConfig) (retry []*pendingMessage, expired []*pendingMessage) {
	for key, msg := range s.pending {
		if now.Sub(msg.sentAt) < cfg.RetryDelay {
			continue
		}
		if msg.attempts >= cfg.MaxRetries {
			expired = append(expired, msg)
			delete(s.pending, key)
			continue
		}
		msg.attempts++
		msg.sentAt = now
		retry = append(retry, msg)
	}
	return retry, expired
}

// pendingRaws returns the raw bytes of every message still awaiting
// acknowledgement, for a final unconditional resend on shutdown.
func (s *endpointState) pendingRaws() [][]byte {
	raws := make([][]byte, 0, len(s.pending))
	for _, msg := range s.pending {
		raws = append(raws, msg.raw)
	}
	return raws
}

// recordInput updates the endpoint's view of a player's input sequencing,
// independent of the input buffer's own reordering bookkeeping. It exists
// so the transport layer can distinguish a fresh datagram from a replay
// without importing the session/inputbuf packages.
func (s *endpointState) recordInput(seq uint32) (advanced bool) {
	if seq <= s.lastInputSeq && s.lastInputSeq != 0 {
		return false
	}
	s.lastInputSeq = seq
	return true
}

// classify reports whether msgType requires the reliability overlay.
// player_input and heartbeat are fire-and-forget; state-changing
// notifications the client must not silently miss are reliable.
func classify(msgType wire.MessageType) bool {
	switch msgType {
	case wire.MessageConnectResponse, wire.MessageReconnectResponse,
		wire.MessagePlayerJoined, wire.MessagePlayerDisconnected,
		wire.MessageGameStarted, wire.MessageLobbyUpdate, wire.MessageError:
		return true
	default:
		return false
	}
}

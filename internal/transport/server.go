package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"dropzone/internal/wire"
	"dropzone/logging"
	lognetwork "dropzone/logging/network"
)

// Handler processes one decoded inbound envelope. addr is the sender's
// socket address at the time of receipt, which may differ from any address
// previously bound to playerID (e.g. on NAT rebind or reconnect).
type Handler func(ctx context.Context, addr *net.UDPAddr, envelope wire.Envelope)

// Config bundles everything the transport needs beyond the socket itself.
type Config struct {
	Port                 int
	MaxPacketSize        int
	CompressionThreshold int
	ClientTimeout        time.Duration
	ReliableRetries      int
	PlayerUpdateRate     int
}

// Server owns a single UDP socket, decoding/encoding datagrams through a
// wire.Codec and applying per-endpoint rate limiting and reliable-delivery
// retries.
type Server struct {
	conn     *net.UDPConn
	codec    *wire.Codec
	registry *Registry
	relCfg   ReliabilityConfig
	cfg      Config
	pub      logging.Publisher
	handler  Handler
}

// Listen binds a UDP socket on cfg.Port and returns a ready-to-run Server.
func Listen(cfg Config, pub logging.Publisher, handler Handler) (*Server, error) {
	addr := &net.UDPAddr{Port: cfg.Port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: bind udp port %d: %w", cfg.Port, err)
	}
	codec, err := wire.NewCodec(cfg.CompressionThreshold)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: construct codec: %w", err)
	}
	return &Server{
		conn:     conn,
		codec:    codec,
		registry: NewRegistry(DefaultRateLimitConfig(cfg.PlayerUpdateRate)),
		relCfg:   DefaultReliabilityConfig(cfg.ReliableRetries),
		cfg:      cfg,
		pub:      pub,
		handler:  handler,
	}, nil
}

// Registry exposes the endpoint registry for callers that need to bind a
// newly accepted player or sweep timeouts.
func (s *Server) Registry() *Registry { return s.registry }

// Close releases the socket and codec.
func (s *Server) Close() error {
	s.codec.Close()
	return s.conn.Close()
}

// Run drives the receive loop until ctx is cancelled or the socket fails
// fatally. A per-datagram read deadline lets the loop notice cancellation
// promptly instead of blocking forever in ReadFromUDP.
func (s *Server) Run(ctx context.Context) error {
	buf := make([]byte, s.cfg.MaxPacketSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("transport: read udp: %w", err)
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		s.handleDatagram(ctx, addr, datagram)
	}
}

func (s *Server) handleDatagram(ctx context.Context, addr *net.UDPAddr, datagram []byte) {
	envelope, err := s.codec.DecodeEnvelope(datagram)
	if err != nil {
		lognetwork.MalformedPayload(ctx, s.pub, 0, logging.EntityRef{}, lognetwork.RejectPayload{
			Reason: err.Error(),
		})
		return
	}

	actor := logging.EntityRef{Kind: "player", ID: envelope.PlayerID}

	state, bound := s.registry.Lookup(addr)
	if !bound {
		if state2, ok := s.registry.ByPlayer(envelope.PlayerID); ok {
			state = state2
		}
	}
	if state != nil {
		if !state.limiter.Allow(envelope.Type) {
			lognetwork.RateLimitExceeded(ctx, s.pub, 0, actor, lognetwork.RejectPayload{
				MessageType: string(envelope.Type),
				Reason:      "token bucket exhausted",
			})
			return
		}
		s.registry.Touch(envelope.PlayerID, time.Now())
	}

	s.handler(ctx, addr, envelope)
}

// SendTo encodes payload and writes it to addr. When classify marks msgType
// as reliable, the datagram is also tracked in the destination endpoint's pending-ack table
// so RetryPending can resend it until acknowledged or the retry budget is
// exhausted.
func (s *Server) SendTo(playerID string, addr *net.UDPAddr, msgType wire.MessageType, payload any) error {
	raw, err := s.codec.EncodeMessage(msgType, playerID, payload, time.Now())
	if err != nil {
		return err
	}
	if _, err := s.conn.WriteToUDP(raw, addr); err != nil {
		return fmt.Errorf("transport: write udp: %w", err)
	}

	if classify(msgType) {
		if state, ok := s.registry.Lookup(addr); ok {
			state.trackPending(uuid.NewString(), raw, time.Now())
		}
	}
	return nil
}

// RetryPending resends any reliable messages past their retry delay for
// every bound endpoint, and reports those that exhausted their retry
// budget. Intended to be called once per tick (or on its own short ticker)
// by the caller that owns the simulation loop.
func (s *Server) RetryPending(ctx context.Context) {
	now := time.Now()
	for _, playerID := range s.registry.Snapshot() {
		state, ok := s.registry.ByPlayer(playerID)
		if !ok {
			continue
		}
		retry, expired := state.duePending(now, s.relCfg)
		for _, msg := range retry {
			s.conn.WriteToUDP(msg.raw, state.addr)
		}
		for range expired {
			lognetwork.DeliveryFailed(ctx, s.pub, 0, logging.EntityRef{Kind: "player", ID: playerID}, lognetwork.RejectPayload{
				Reason: "reliable message exhausted retries",
			})
		}
	}
}

// Acknowledge clears a pending reliable message for playerID once the peer
// confirms receipt via a message_ack datagram.
func (s *Server) Acknowledge(playerID, messageID string) {
	if state, ok := s.registry.ByPlayer(playerID); ok {
		state.acknowledge(messageID)
	}
}

// DrainPending makes one unconditional final resend of every endpoint's
// outstanding reliable messages, for the shutdown path: the receive loop
// has already stopped, so there's no further ack cycle to wait on, but a
// last retry gives a client one more chance to pick up a notification it
// missed right as the process went down.
func (s *Server) DrainPending() {
	for _, playerID := range s.registry.Snapshot() {
		state, ok := s.registry.ByPlayer(playerID)
		if !ok {
			continue
		}
		for _, raw := range state.pendingRaws() {
			s.conn.WriteToUDP(raw, state.addr)
		}
	}
}

// SweepTimeouts returns player ids whose endpoints have been silent longer
// than cfg.ClientTimeout, without removing them; the caller decides how to
// react (mark disconnected, save session state).
func (s *Server) SweepTimeouts() []string {
	return s.registry.Stale(time.Now(), s.cfg.ClientTimeout)
}

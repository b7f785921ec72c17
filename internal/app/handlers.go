package app

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"dropzone/internal/entities"
	"dropzone/internal/lobby"
	"dropzone/internal/movement"
	"dropzone/internal/projectile"
	"dropzone/internal/wire"
	"dropzone/internal/world"
	"dropzone/logging"
	logginglobby "dropzone/logging/lobby"
	loggingnetwork "dropzone/logging/network"
	loggingsession "dropzone/logging/session"
)

const entityPlayer logging.EntityKind = "player"

// handleEnvelope is the transport.Handler registered with the server; it
// decodes by message type and routes into the matching player or match
// instance. Handlers run on the transport's receive goroutine, so nothing
// here blocks on the simulation tick.
func (a *App) handleEnvelope(ctx context.Context, addr *net.UDPAddr, envelope wire.Envelope) {
	switch envelope.Type {
	case wire.MessageConnect:
		a.handleConnect(ctx, addr, envelope)
	case wire.MessageReconnect:
		a.handleReconnect(ctx, addr, envelope)
	case wire.MessageHeartbeat:
		a.handleHeartbeat(addr, envelope)
	case wire.MessagePlayerInput:
		a.handlePlayerInput(ctx, envelope)
	case wire.MessageLootGrab:
		a.handleLootGrab(ctx, envelope)
	case wire.MessageUseItem:
		a.handleUseItem(ctx, envelope)
	case wire.MessageExtraction:
		a.handleExtraction(ctx, envelope)
	case wire.MessageChat:
		a.handleChat(ctx, envelope)
	case wire.MessageTradeRequest:
		a.handleTradeRequest(ctx, envelope)
	case wire.MessageAck:
		a.handleAck(envelope)
	default:
		loggingnetwork.UnsupportedType(ctx, a.pub, 0,
			logging.EntityRef{ID: envelope.PlayerID, Kind: entityPlayer},
			loggingnetwork.RejectPayload{MessageType: string(envelope.Type)})
	}
}

func (a *App) handleConnect(ctx context.Context, addr *net.UDPAddr, envelope wire.Envelope) {
	var payload wire.ConnectPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		a.sendError(addr, "", wire.ErrorPayload{Code: "bad_payload", Message: "malformed connect payload"})
		return
	}

	class := entities.Class(payload.PlayerClass)
	if !class.Valid() {
		a.sendError(addr, "", wire.ErrorPayload{Code: "bad_class", Message: "unknown player class"})
		return
	}

	playerID := uuid.NewString()
	now := time.Now()

	l := a.lobbies.FindOrCreate(payload.TeamID, now)
	if err := l.Join(playerID, payload.TeamID, now); err != nil {
		a.server.SendTo(playerID, addr, wire.MessageConnectResponse, wire.ConnectResponsePayload{Error: err.Error()})
		return
	}

	a.server.Registry().Bind(playerID, addr, now)

	player := entities.NewPlayer(playerID, payload.PlayerName, class, entities.Vector2{})
	player.TeamID = payload.TeamID

	a.mu.Lock()
	a.pending[playerID] = player
	a.mu.Unlock()

	sess := a.sessions.Create(playerID, now)

	loggingsession.PlayerJoined(ctx, a.pub, 0, logging.EntityRef{ID: playerID, Kind: entityPlayer}, loggingsession.PlayerJoinedPayload{
		Class:  string(class),
		TeamID: payload.TeamID,
	})
	logginglobby.PlayerJoined(ctx, a.pub, 0, logging.EntityRef{ID: playerID, Kind: entityPlayer}, logginglobby.PlayerJoinedPayload{
		LobbyID:      l.ID,
		TeamID:       payload.TeamID,
		TotalPlayers: l.PlayerCount(),
	})

	a.server.SendTo(playerID, addr, wire.MessageConnectResponse, wire.ConnectResponsePayload{
		PlayerID:      playerID,
		SessionToken:  sess.Token,
		SpawnPosition: player.Position,
		ServerInfo:    "dropzone",
	})

	a.broadcastLobbyUpdate(l)
}

// broadcastLobbyUpdate tells every player waiting in l how its roster has
// changed, so a waiting client can show a live player/team count instead of
// guessing at how close the match is to starting.
func (a *App) broadcastLobbyUpdate(l *lobby.Lobby) {
	update := wire.LobbyUpdatePayload{
		LobbyID:     l.ID,
		PlayerCount: l.PlayerCount(),
		TeamCount:   l.TeamCount(),
	}
	for _, playerID := range l.PlayerIDs() {
		addr, ok := a.server.Registry().AddrFor(playerID)
		if !ok {
			continue
		}
		a.server.SendTo(playerID, addr, wire.MessageLobbyUpdate, update)
	}
}

func (a *App) handleReconnect(ctx context.Context, addr *net.UDPAddr, envelope wire.Envelope) {
	var payload wire.ReconnectPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		a.sendError(addr, "", wire.ErrorPayload{Code: "bad_payload", Message: "malformed reconnect payload"})
		return
	}

	now := time.Now()
	sess, saved, err := a.sessions.Reconnect(payload.SessionToken, now)
	if err != nil {
		loggingsession.ReconnectFailed(ctx, a.pub, 0, logging.EntityRef{ID: "", Kind: entityPlayer}, loggingsession.ReconnectFailedPayload{Reason: err.Error()})
		a.server.SendTo("", addr, wire.MessageReconnectResponse, wire.ReconnectResponsePayload{Reason: err.Error()})
		return
	}

	playerID := sess.PlayerID
	a.server.Registry().Bind(playerID, addr, now)

	a.mu.Lock()
	a.playerWorld[playerID] = saved.WorldID
	wr, ok := a.worlds[saved.WorldID]
	a.mu.Unlock()

	if ok {
		wr.world.AddPlayer(saved.Player)
	}

	disconnectedAt := sess.ExpiresAt.Add(-a.cfg.SessionTTL)

	loggingsession.ReconnectSucceeded(ctx, a.pub, 0, logging.EntityRef{ID: playerID, Kind: entityPlayer})

	a.server.SendTo(playerID, addr, wire.MessageReconnectResponse, wire.ReconnectResponsePayload{
		PlayerID:            playerID,
		WorldID:             saved.WorldID,
		Position:            saved.Player.Position,
		Health:              saved.Player.Health,
		MaxHealth:           saved.Player.MaxHealth,
		Mana:                saved.Player.Mana,
		MaxMana:             saved.Player.MaxMana,
		TimeSinceDisconnect: now.Sub(disconnectedAt).Seconds(),
	})
}

func (a *App) handleHeartbeat(addr *net.UDPAddr, envelope wire.Envelope) {
	a.server.SendTo(envelope.PlayerID, addr, wire.MessageHeartbeatAck, struct{}{})
}

func (a *App) handlePlayerInput(ctx context.Context, envelope wire.Envelope) {
	var payload wire.PlayerInputPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		loggingnetwork.MalformedPayload(ctx, a.pub, 0, logging.EntityRef{ID: envelope.PlayerID, Kind: entityPlayer},
			loggingnetwork.RejectPayload{MessageType: string(envelope.Type), Reason: err.Error()})
		return
	}

	wr, ok := a.worldRuntimeFor(envelope.PlayerID)
	if !ok {
		return
	}

	buf := wr.bufferFor(envelope.PlayerID)
	for _, raw := range buf.Push(payload.SequenceNumber, payload, time.Now()) {
		ready, ok := raw.(wire.PlayerInputPayload)
		if !ok {
			continue
		}
		a.applyPlayerInput(wr, envelope.PlayerID, ready)
	}
}

func (a *App) applyPlayerInput(wr *worldRuntime, playerID string, payload wire.PlayerInputPayload) {
	wr.queueMove(playerID, movement.Input{
		Move:       payload.MoveInput,
		Sprinting:  payload.IsSprinting,
		Speed:      a.cfg.Balance.MovementSpeed,
		SprintMul:  a.cfg.Balance.SprintMultiplier,
		ManaPerSec: a.cfg.Balance.ManaPerSprintSecond,
	})

	if payload.IsAttacking {
		wr.queueAttack(playerID, float64(payload.AimDirection))
	}

	if payload.AbilityType == "" {
		return
	}

	if projectile.IsPreset(payload.AbilityType) {
		position, ok := wr.world.PlayerPosition(playerID)
		if !ok {
			return
		}
		direction := payload.AbilityTarget.Sub(position).Normalized()
		wr.queueSpawn(playerID, world.ProjectileSpawnRequest{
			OwnerID:         playerID,
			Preset:          payload.AbilityType,
			Direction:       direction,
			ClientTimestamp: time.Now(),
		})
		return
	}

	wr.queueAbility(playerID, world.AbilityRequest{
		Name:   payload.AbilityType,
		Target: payload.AbilityTarget,
	})
}

func (a *App) handleLootGrab(ctx context.Context, envelope wire.Envelope) {
	var payload wire.LootGrabPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		loggingnetwork.MalformedPayload(ctx, a.pub, 0, logging.EntityRef{ID: envelope.PlayerID, Kind: entityPlayer},
			loggingnetwork.RejectPayload{MessageType: string(envelope.Type), Reason: err.Error()})
		return
	}
	if wr, ok := a.worldRuntimeFor(envelope.PlayerID); ok {
		wr.queueLootGrab(envelope.PlayerID, payload.LootID)
	}
}

func (a *App) handleUseItem(ctx context.Context, envelope wire.Envelope) {
	var payload wire.UseItemPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		loggingnetwork.MalformedPayload(ctx, a.pub, 0, logging.EntityRef{ID: envelope.PlayerID, Kind: entityPlayer},
			loggingnetwork.RejectPayload{MessageType: string(envelope.Type), Reason: err.Error()})
		return
	}
	if wr, ok := a.worldRuntimeFor(envelope.PlayerID); ok {
		wr.queueItemUse(envelope.PlayerID, world.ItemUseRequest{ItemID: payload.ItemID, ItemType: payload.ItemType})
	}
}

func (a *App) handleExtraction(ctx context.Context, envelope wire.Envelope) {
	var payload wire.ExtractionPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		loggingnetwork.MalformedPayload(ctx, a.pub, 0, logging.EntityRef{ID: envelope.PlayerID, Kind: entityPlayer},
			loggingnetwork.RejectPayload{MessageType: string(envelope.Type), Reason: err.Error()})
		return
	}
	if wr, ok := a.worldRuntimeFor(envelope.PlayerID); ok {
		wr.queueExtraction(envelope.PlayerID, world.ExtractionCommand{
			Action:       payload.Action,
			ExtractionID: payload.ExtractionID,
		})
	}
}

// handleChat forwards a chat message verbatim to every other player sharing
// the sender's world. The server doesn't interpret chat content; it only
// routes it.
func (a *App) handleChat(ctx context.Context, envelope wire.Envelope) {
	var payload wire.ChatPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		return
	}
	wr, ok := a.worldRuntimeFor(envelope.PlayerID)
	if !ok {
		return
	}
	for _, targetID := range wr.world.ConnectedPlayerIDs() {
		if targetID == envelope.PlayerID {
			continue
		}
		addr, ok := a.server.Registry().AddrFor(targetID)
		if !ok {
			continue
		}
		a.server.SendTo(targetID, addr, wire.MessageChat, payload)
	}
}

// handleTradeRequest forwards a trade offer to its named target, if that
// player is connected. The server doesn't validate or settle the trade; it
// is an opaque relay, same as chat.
func (a *App) handleTradeRequest(ctx context.Context, envelope wire.Envelope) {
	var payload wire.TradeRequestPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		return
	}
	addr, ok := a.server.Registry().AddrFor(payload.TargetPlayerID)
	if !ok {
		return
	}
	a.server.SendTo(payload.TargetPlayerID, addr, wire.MessageTradeRequest, payload)
}

func (a *App) handleAck(envelope wire.Envelope) {
	var payload wire.MessageAckPayload
	if err := wire.DecodePayload(envelope, &payload); err != nil {
		return
	}
	a.server.Acknowledge(envelope.PlayerID, payload.MessageID)
}

// worldRuntimeFor resolves the active match for a connected player, if any.
func (a *App) worldRuntimeFor(playerID string) (*worldRuntime, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	worldID, ok := a.playerWorld[playerID]
	if !ok {
		return nil, false
	}
	wr, ok := a.worlds[worldID]
	return wr, ok
}

func (a *App) sendError(addr *net.UDPAddr, playerID string, payload wire.ErrorPayload) {
	a.server.SendTo(playerID, addr, wire.MessageError, payload)
}

package tcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/matchmaking"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

// handleConn - reads the connection's initial intent and routes it. The
// goroutine ends once the intent is dispatched; the connection itself
// stays alive inside the registry or a session.
func (that *Server) handleConn(ctx context.Context, conn *protocol.Conn) {
	log := that.logger.With("method", "handleConn", "remote", conn.RemoteAddr().String())

	intent, err := conn.ReadFlag()
	if err != nil {
		log.Debug("failed to read intent", "error", err)
		_ = conn.Close()
		return
	}

	switch intent {
	case protocol.FlagWait:
		that.handleRandom(ctx, conn)
	case protocol.FlagCreatePrivate:
		that.handleCreateRoom(conn)
	case protocol.FlagJoinPrivate:
		that.handleJoin(ctx, conn)
	default:
		log.Warn("unknown intent, dropping connection", "intent", intent)
		_ = conn.Close()
	}
}

// handleRandom - puts the player on the random-pairing queue. The wait
// notice goes out before the endpoint becomes visible to other
// goroutines, so nothing can race a match-start message ahead of it.
func (that *Server) handleRandom(ctx context.Context, conn *protocol.Conn) {
	log := that.logger.With("method", "handleRandom")

	endpoint, err := that.receiveEndpoint(conn)
	if err != nil {
		log.Debug("failed to receive player", "error", err)
		_ = conn.Close()
		return
	}

	if err = conn.WriteWait(); err != nil {
		log.Debug("failed to send wait notice", "error", err)
		_ = conn.Close()
		return
	}

	opponent, paired := that.registry.EnqueueRandom(endpoint)
	if !paired {
		log.Info("player waiting for an opponent",
			"player", endpoint.Player.Name,
			"player_id", endpoint.Player.ID,
		)
		return
	}

	log.Info("players paired",
		"player", opponent.Player.Name,
		"opponent", endpoint.Player.Name,
	)

	that.startSession(ctx, opponent, endpoint)
}

// handleCreateRoom - opens a private room and hands the connection over
// to it. The creator hears nothing more until a join request arrives.
func (that *Server) handleCreateRoom(conn *protocol.Conn) {
	log := that.logger.With("method", "handleCreateRoom")

	endpoint, err := that.receiveEndpoint(conn)
	if err != nil {
		log.Debug("failed to receive player", "error", err)
		_ = conn.Close()
		return
	}

	room, err := that.registry.CreateRoom(endpoint)
	if err != nil {
		log.Warn("failed to create room", "player", endpoint.Player.Name, "error", err)
		_ = conn.WriteFlag(protocol.FlagJoinRejected)
		_ = conn.Close()
		return
	}

	if err = conn.WriteRoomCreated(room.ID); err != nil {
		log.Debug("failed to confirm room", "room_id", room.ID, "error", err)
		that.registry.RemoveRoom(room.ID)
		_ = conn.Close()
		return
	}

	log.Info("private room created", "room_id", room.ID, "player", endpoint.Player.Name)
}

// handleJoin - mediates a private-room join: the candidate's name is
// forwarded to the creator, and the creator's decision is read on this
// goroutine, since the creator's own acceptor goroutine is long gone.
func (that *Server) handleJoin(ctx context.Context, conn *protocol.Conn) {
	log := that.logger.With("method", "handleJoin")

	roomID, err := conn.ReadRoomID()
	if err != nil {
		log.Debug("failed to read room id", "error", err)
		_ = conn.Close()
		return
	}

	candidate, err := that.receiveEndpoint(conn)
	if err != nil {
		log.Debug("failed to receive player", "error", err)
		_ = conn.Close()
		return
	}

	room, err := that.registry.AttachCandidate(roomID, candidate)
	if err != nil {
		log.Info("join request rejected", "room_id", roomID, "error", err)
		_ = conn.WriteFlag(protocol.FlagJoinRejected)
		_ = conn.Close()
		return
	}

	if err = room.Creator.Conn.WriteJoinRequest(candidate.Player.Name); err != nil {
		log.Info("room creator is gone, removing room", "room_id", room.ID, "error", err)
		that.dropRoom(room)
		_ = conn.WriteFlag(protocol.FlagJoinRejected)
		_ = conn.Close()
		return
	}

	decision, err := room.Creator.Conn.ReadFlag()
	if err != nil {
		log.Info("room creator is gone, removing room", "room_id", room.ID, "error", err)
		that.dropRoom(room)
		_ = conn.WriteFlag(protocol.FlagJoinRejected)
		_ = conn.Close()
		return
	}

	if decision != protocol.FlagJoinAccepted {
		log.Info("creator rejected the candidate",
			"room_id", room.ID,
			"candidate", candidate.Player.Name,
		)
		that.registry.DetachCandidate(room.ID)
		_ = conn.WriteFlag(protocol.FlagJoinRejected)
		_ = conn.Close()
		return
	}

	// The room is consumed by the match; its id is no longer joinable.
	that.registry.RemoveRoom(room.ID)

	if err = conn.WriteFlag(protocol.FlagJoinAccepted); err != nil {
		log.Debug("failed to confirm acceptance", "error", err)
	}

	log.Info("join accepted",
		"room_id", room.ID,
		"creator", room.Creator.Player.Name,
		"candidate", candidate.Player.Name,
	)

	that.startSession(ctx, room.Creator, candidate)
}

// receiveEndpoint - reads the player info message and binds it to the
// connection.
func (that *Server) receiveEndpoint(conn *protocol.Conn) (*matchmaking.Endpoint, error) {
	name, err := conn.ReadPlayerName()
	if err != nil {
		return nil, err
	}

	return &matchmaking.Endpoint{
		Player: &entity.Player{
			ID:   uuid.NewString(),
			Name: name,
		},
		Conn: conn,
	}, nil
}

// dropRoom - removes a room whose creator disconnected and releases the
// creator's connection.
func (that *Server) dropRoom(room *matchmaking.Room) {
	that.registry.RemoveRoom(room.ID)
	_ = room.Creator.Conn.Close()
}

// Package session runs a single match between two paired players. Every
// session owns its two connections and its grid exclusively; an I/O error
// on either connection ends that session and nothing else.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/matchmaking"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/tictactoe"
)

const archiveTimeout = 5 * time.Second

// Archive - sink for finished-match records. Recording is best-effort
// and never fails the session.
type Archive interface {
	RecordResult(ctx context.Context, result *entity.MatchResult) error
}

type Session struct {
	logger  *slog.Logger
	archive Archive

	// id is assigned once at creation and never rebound.
	id      uint32
	playerX *matchmaking.Endpoint
	playerO *matchmaking.Endpoint
	grid    tictactoe.Grid
}

// New - creates a session for two paired endpoints. The first player is
// always X and moves first; the second is always O.
func New(logger *slog.Logger, id uint32, first, second *matchmaking.Endpoint, archive Archive) *Session {
	first.Player.Mark = tictactoe.MarkX
	second.Player.Mark = tictactoe.MarkO

	return &Session{
		logger:  logger.With("component", "session", "match_id", id),
		archive: archive,
		id:      id,
		playerX: first,
		playerO: second,
		grid:    tictactoe.NewGrid(),
	}
}

// Run - plays the match to a terminal state and releases both
// connections. Any receive or send failure ends the session immediately;
// the surviving peer observes its own read failure, no explicit
// disconnect notice is sent.
func (that *Session) Run(ctx context.Context) {
	defer that.release()

	log := that.logger

	if err := that.announce(); err != nil {
		log.Error("failed to announce match", "error", err)
		return
	}

	log.Info("match started",
		"player_x", that.playerX.Player.Name,
		"player_o", that.playerO.Player.Name,
	)

	mover, waiter := that.playerX, that.playerO

	for {
		if err := mover.Conn.WriteTurn(protocol.FlagYourMove, that.grid); err != nil {
			log.Error("failed to send your-move", "player", mover.Player.Name, "error", err)
			return
		}

		if err := waiter.Conn.WriteTurn(protocol.FlagOpponentMove, that.grid); err != nil {
			log.Error("failed to send opponent-move", "player", waiter.Player.Name, "error", err)
			return
		}

		cell, err := mover.Conn.ReadMove()
		if err != nil {
			log.Info("player left the match", "player", mover.Player.Name, "error", err)
			return
		}

		// A well-behaved client pre-validates its move; anything invalid
		// here is a broken or malicious peer and ends the match.
		if err = that.grid.Apply(cell, mover.Player.Mark); err != nil {
			log.Warn("rejecting invalid move", "player", mover.Player.Name, "cell", cell, "error", err)
			return
		}

		if err = that.broadcastGrid(); err != nil {
			log.Error("failed to broadcast grid", "error", err)
			return
		}

		verdict := that.grid.Evaluate()
		switch verdict.Outcome {
		case tictactoe.Won:
			that.finishWon(ctx, mover, waiter)
			return
		case tictactoe.Draw:
			that.finishDraw(ctx)
			return
		case tictactoe.Ongoing:
			mover, waiter = waiter, mover
		}
	}
}

// announce - sends the match-start message to both players: match id,
// opponent name and the assigned symbol.
func (that *Session) announce() error {
	if err := that.playerX.Conn.WriteMatchStart(that.id, that.playerO.Player.Name, tictactoe.MarkX); err != nil {
		return err
	}

	return that.playerO.Conn.WriteMatchStart(that.id, that.playerX.Player.Name, tictactoe.MarkO)
}

func (that *Session) broadcastGrid() error {
	if err := that.playerX.Conn.WriteTurn(protocol.FlagOpponentMove, that.grid); err != nil {
		return err
	}

	return that.playerO.Conn.WriteTurn(protocol.FlagOpponentMove, that.grid)
}

func (that *Session) finishWon(ctx context.Context, winner, loser *matchmaking.Endpoint) {
	log := that.logger

	if err := winner.Conn.WriteTurn(protocol.FlagWin, that.grid); err != nil {
		log.Error("failed to send win", "player", winner.Player.Name, "error", err)
	}

	if err := loser.Conn.WriteTurn(protocol.FlagLose, that.grid); err != nil {
		log.Error("failed to send lose", "player", loser.Player.Name, "error", err)
	}

	log.Info("match won", "winner", winner.Player.Name)

	that.recordResult(ctx, markString(winner.Player.Mark))
}

func (that *Session) finishDraw(ctx context.Context) {
	log := that.logger

	if err := that.playerX.Conn.WriteTurn(protocol.FlagDraw, that.grid); err != nil {
		log.Error("failed to send draw", "player", that.playerX.Player.Name, "error", err)
	}

	if err := that.playerO.Conn.WriteTurn(protocol.FlagDraw, that.grid); err != nil {
		log.Error("failed to send draw", "player", that.playerO.Player.Name, "error", err)
	}

	log.Info("match drawn")

	that.recordResult(ctx, entity.WinnerTie)
}

func (that *Session) recordResult(ctx context.Context, winner string) {
	if that.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	result := &entity.MatchResult{
		MatchID:    that.id,
		PlayerX:    that.playerX.Player.Name,
		PlayerO:    that.playerO.Player.Name,
		Winner:     winner,
		FinalGrid:  string(that.grid[:]),
		FinishedAt: time.Now().UTC(),
	}

	if err := that.archive.RecordResult(ctx, result); err != nil {
		that.logger.Error("failed to archive match result", "error", err)
	}
}

func markString(mark byte) string {
	if mark == tictactoe.MarkX {
		return entity.WinnerX
	}
	return entity.WinnerO
}

func (that *Session) release() {
	if err := that.playerX.Conn.Close(); err != nil {
		that.logger.Debug("failed to close connection", "player", that.playerX.Player.Name, "error", err)
	}

	if err := that.playerO.Conn.Close(); err != nil {
		that.logger.Debug("failed to close connection", "player", that.playerO.Player.Name, "error", err)
	}
}

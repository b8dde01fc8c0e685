// Package tcp implements the connection acceptor: it listens for inbound
// TCP connections, reads each connection's initial intent and dispatches
// it to the matchmaking registry. All further per-match traffic happens
// inside the spawned session.
package tcp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/matchmaking"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/session"
)

type Server struct {
	logger   *slog.Logger
	registry *matchmaking.Registry
	archive  session.Archive

	nextMatchID atomic.Uint32
}

func New(logger *slog.Logger, registry *matchmaking.Registry, archive session.Archive) *Server {
	return &Server{
		logger:   logger.With("component", "tcp-server"),
		registry: registry,
		archive:  archive,
	}
}

// Start - accepts connections until the context is canceled. The accept
// loop never blocks on game play; each connection is handled on its own
// goroutine.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	that.logger.Info("listening for connections", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		go that.handleConn(ctx, protocol.NewConn(conn))
	}
}

// startSession - spawns a session for two paired endpoints. The first
// endpoint becomes X and moves first.
func (that *Server) startSession(ctx context.Context, first, second *matchmaking.Endpoint) {
	matchID := that.nextMatchID.Add(1)

	go session.New(that.logger, matchID, first, second, that.archive).Run(ctx)
}

package protocol

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/tictactoe"
)

// Conn - one player's endpoint. It wraps the raw TCP connection with a
// buffered reader and typed read/write helpers for every wire message.
// A Conn is owned by exactly one goroutine at a time (acceptor, registry
// room, or session); it is not safe for concurrent use.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
}

func NewConn(raw net.Conn) *Conn {
	return &Conn{
		raw:    raw,
		reader: bufio.NewReader(raw),
	}
}

func (that *Conn) Close() error {
	return that.raw.Close()
}

func (that *Conn) RemoteAddr() net.Addr {
	return that.raw.RemoteAddr()
}

// ReadFlag - reads one 4-byte message flag.
func (that *Conn) ReadFlag() (uint32, error) {
	value, err := that.readUint32()
	if err != nil {
		return 0, fmt.Errorf("read flag: %w", err)
	}

	return value, nil
}

func (that *Conn) WriteFlag(flag uint32) error {
	if err := that.writeUint32(flag); err != nil {
		return fmt.Errorf("write flag: %w", err)
	}

	return nil
}

// ReadRoomID - reads the 4-byte room id that follows a join-private intent.
func (that *Conn) ReadRoomID() (uint32, error) {
	value, err := that.readUint32()
	if err != nil {
		return 0, fmt.Errorf("read room id: %w", err)
	}

	return value, nil
}

// WriteRoomID - client-side counterpart of ReadRoomID.
func (that *Conn) WriteRoomID(roomID uint32) error {
	if err := that.writeUint32(roomID); err != nil {
		return fmt.Errorf("write room id: %w", err)
	}

	return nil
}

// ReadPlayerName - reads the player info message: a 4-byte field carrying
// a 16-bit name length, then the raw name bytes. A zero or oversized
// length terminates the connection's participation.
func (that *Conn) ReadPlayerName() (string, error) {
	field := make([]byte, 4)
	if _, err := io.ReadFull(that.reader, field); err != nil {
		return "", fmt.Errorf("read name length: %w", lostOnEOF(err))
	}

	nameLen := int(binary.BigEndian.Uint16(field[:2]))
	if nameLen == 0 || nameLen > MaxNameLen {
		return "", fmt.Errorf("%w: name length %d", apperror.ErrProtocolViolation, nameLen)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(that.reader, name); err != nil {
		return "", fmt.Errorf("read name: %w", lostOnEOF(err))
	}

	return string(name), nil
}

// WritePlayerName - writes the player info message.
func (that *Conn) WritePlayerName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLen {
		return fmt.Errorf("%w: name length %d", apperror.ErrProtocolViolation, len(name))
	}

	field := make([]byte, 4)
	binary.BigEndian.PutUint16(field[:2], uint16(len(name)))

	if _, err := that.raw.Write(field); err != nil {
		return fmt.Errorf("write name length: %w", err)
	}

	if _, err := io.WriteString(that.raw, name); err != nil {
		return fmt.Errorf("write name: %w", err)
	}

	return nil
}

// ReadMove - reads a 4-byte move index.
func (that *Conn) ReadMove() (int, error) {
	value, err := that.readUint32()
	if err != nil {
		return 0, fmt.Errorf("read move: %w", err)
	}

	return int(int32(value)), nil
}

func (that *Conn) WriteMove(cell int) error {
	if err := that.writeUint32(uint32(int32(cell))); err != nil {
		return fmt.Errorf("write move: %w", err)
	}

	return nil
}

// ReadGrid - reads a 9-byte grid snapshot.
func (that *Conn) ReadGrid() (tictactoe.Grid, error) {
	var grid tictactoe.Grid
	if _, err := io.ReadFull(that.reader, grid[:]); err != nil {
		return grid, fmt.Errorf("read grid: %w", lostOnEOF(err))
	}

	return grid, nil
}

// WriteWait - tells an unpaired player to wait for an opponent.
func (that *Conn) WriteWait() error {
	return that.WriteFlag(FlagWait)
}

// WriteMatchStart - announces the match: id, opponent name and the
// symbol assigned to this player.
func (that *Conn) WriteMatchStart(matchID uint32, opponent string, mark byte) error {
	if err := that.WriteFlag(FlagStart); err != nil {
		return err
	}

	if err := that.writeUint32(matchID); err != nil {
		return fmt.Errorf("write match id: %w", err)
	}

	if err := that.WritePlayerName(opponent); err != nil {
		return err
	}

	if _, err := that.raw.Write([]byte{mark}); err != nil {
		return fmt.Errorf("write mark: %w", err)
	}

	return nil
}

// ReadMatchStart - client-side counterpart of WriteMatchStart, read after
// the start flag itself has already been consumed.
func (that *Conn) ReadMatchStart() (matchID uint32, opponent string, mark byte, err error) {
	if matchID, err = that.readUint32(); err != nil {
		return 0, "", 0, fmt.Errorf("read match id: %w", err)
	}

	if opponent, err = that.ReadPlayerName(); err != nil {
		return 0, "", 0, err
	}

	markBuf := make([]byte, 1)
	if _, err = io.ReadFull(that.reader, markBuf); err != nil {
		return 0, "", 0, fmt.Errorf("read mark: %w", lostOnEOF(err))
	}

	return matchID, opponent, markBuf[0], nil
}

// WriteTurn - sends a turn notification (your-move or opponent-move)
// together with the current grid snapshot.
func (that *Conn) WriteTurn(flag uint32, grid tictactoe.Grid) error {
	if err := that.WriteFlag(flag); err != nil {
		return err
	}

	if _, err := that.raw.Write(grid[:]); err != nil {
		return fmt.Errorf("write grid: %w", err)
	}

	return nil
}

// WriteRoomCreated - replies to a private-room creator with the room id.
func (that *Conn) WriteRoomCreated(roomID uint32) error {
	if err := that.WriteFlag(FlagPrivateCreated); err != nil {
		return err
	}

	if err := that.writeUint32(roomID); err != nil {
		return fmt.Errorf("write room id: %w", err)
	}

	return nil
}

// WriteJoinRequest - forwards a join candidate's name to the room creator.
func (that *Conn) WriteJoinRequest(candidate string) error {
	if err := that.WriteFlag(FlagJoinRequest); err != nil {
		return err
	}

	return that.WritePlayerName(candidate)
}

func (that *Conn) readUint32() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(that.reader, buf); err != nil {
		return 0, lostOnEOF(err)
	}

	return binary.BigEndian.Uint32(buf), nil
}

func (that *Conn) writeUint32(value uint32) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, value)

	_, err := that.raw.Write(buf)
	return err
}

// lostOnEOF - maps a peer closing mid-message onto the connection-lost
// sentinel so callers can classify the failure.
func lostOnEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", apperror.ErrConnectionLost, err)
	}

	return err
}

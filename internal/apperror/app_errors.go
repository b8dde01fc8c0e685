package apperror

import "errors"

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomBusy       = errors.New("room already has a pending candidate")
	ErrRoomsExhausted = errors.New("room table is full")

	ErrProtocolViolation = errors.New("protocol violation")
	ErrConnectionLost    = errors.New("connection lost")
)

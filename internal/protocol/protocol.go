// Package protocol implements the fixed binary message set spoken over a
// match connection. All multi-byte integers are big-endian. Framing is
// flag-then-payload; there is no message envelope and no recovery from a
// malformed or truncated message.
package protocol

// Message flags. The intent flags double as the first message a client
// sends after connecting.
const (
	FlagWait           uint32 = 0
	FlagStart          uint32 = 1
	FlagOpponentMove   uint32 = 2
	FlagYourMove       uint32 = 3
	FlagWin            uint32 = 4
	FlagLose           uint32 = 5
	FlagDraw           uint32 = 6
	FlagCreatePrivate  uint32 = 10
	FlagPrivateCreated uint32 = 11
	FlagJoinPrivate    uint32 = 12
	FlagJoinRequest    uint32 = 13
	FlagJoinAccepted   uint32 = 14
	FlagJoinRejected   uint32 = 15
)

// MaxNameLen - upper bound on a display name, matching the client's name
// buffer. Longer length fields are a protocol violation.
const MaxNameLen = 49

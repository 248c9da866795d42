package chat

import "math"

// ID identifies a connection for the lifetime of the process.
type ID uint64

// NoID is used as the exclusion argument when a broadcast should reach every
// connection.
const NoID ID = math.MaxUint64

// State is the lifecycle state of a registered connection.
type State int

const (
	// StateConnected is the state of a freshly registered connection.
	StateConnected State = iota
	// StateJoined is reached once, when the peer announces its nickname.
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Outbox is the outbound delivery handle of one peer.
//
// Send must not block: a full or closed outbox reports an error and the
// payload is dropped. Close releases the underlying transport.
type Outbox interface {
	Send(payload []byte) error
	Close() error
}

// Connection is a snapshot of one registered peer.
type Connection struct {
	ID       ID
	Nickname string
	State    State
	Outbox   Outbox
}

// Joined reports whether the peer has announced a nickname.
func (c Connection) Joined() bool {
	return c.State == StateJoined
}

package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire values of the "type" discriminator.
const (
	TypeJoin      = "join"
	TypeLeave     = "leave"
	TypeMessage   = "message"
	TypeUserCount = "userCount"
	TypeSystem    = "system"
)

// timestampLayout matches the ISO-8601 form browsers produce with
// Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t the way clients render their own timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Event is an inbound event decoded from a peer's frame.
type Event interface {
	event()
}

// JoinEvent announces the sender's nickname.
type JoinEvent struct {
	Sender    string
	Timestamp string
}

// LeaveEvent announces a voluntary departure.
type LeaveEvent struct {
	Timestamp string
}

// MessageEvent carries a chat line.
type MessageEvent struct {
	Content   string
	Timestamp string
}

// UnknownEvent is any well-formed object whose type is not recognized. It is
// always discarded.
type UnknownEvent struct {
	Type string
}

func (JoinEvent) event()    {}
func (LeaveEvent) event()   {}
func (MessageEvent) event() {}
func (UnknownEvent) event() {}

type envelope struct {
	Type      string  `json:"type"`
	Sender    *string `json:"sender"`
	Content   *string `json:"content"`
	Timestamp string  `json:"timestamp"`
}

// DecodeEvent parses one inbound frame. Frames that are not JSON objects or
// that lack a field required by their type return an error wrapping
// ErrMalformed or ErrMissingField.
func DecodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoin:
		if env.Sender == nil || *env.Sender == "" {
			return nil, fmt.Errorf("%w: join requires sender", ErrMissingField)
		}
		return JoinEvent{Sender: *env.Sender, Timestamp: env.Timestamp}, nil
	case TypeLeave:
		return LeaveEvent{Timestamp: env.Timestamp}, nil
	case TypeMessage:
		if env.Content == nil || *env.Content == "" {
			return nil, fmt.Errorf("%w: message requires content", ErrMissingField)
		}
		return MessageEvent{Content: *env.Content, Timestamp: env.Timestamp}, nil
	default:
		return UnknownEvent{Type: env.Type}, nil
	}
}

// Notification is an outbound event broadcast to peers.
type Notification interface {
	notification()
}

// UserCount reports the current occupancy.
type UserCount struct {
	Count int `json:"count"`
}

// Join tells the other peers that someone joined.
type Join struct {
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	UserCount int    `json:"userCount"`
}

// Leave tells peers that someone left.
type Leave struct {
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	UserCount int    `json:"userCount"`
}

// Message relays a chat line.
type Message struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// System is a server-authored line, such as the welcome message.
type System struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (UserCount) notification() {}
func (Join) notification()      {}
func (Leave) notification()     {}
func (Message) notification()   {}
func (System) notification()    {}

// typed prefixes the payload fields with the "type" discriminator.
type typed[T any] struct {
	Type string
	Body T
}

func (t typed[T]) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(struct {
		Type string `json:"type"`
	}{t.Type})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(t.Body)
	if err != nil {
		return nil, err
	}
	if len(body) <= 2 {
		return head, nil
	}
	// Splice {"type":"x"} and {"a":1,...} into {"type":"x","a":1,...}.
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// EncodeNotification serializes n into its wire representation.
func EncodeNotification(n Notification) ([]byte, error) {
	switch v := n.(type) {
	case UserCount:
		return json.Marshal(typed[UserCount]{TypeUserCount, v})
	case Join:
		return json.Marshal(typed[Join]{TypeJoin, v})
	case Leave:
		return json.Marshal(typed[Leave]{TypeLeave, v})
	case Message:
		return json.Marshal(typed[Message]{TypeMessage, v})
	case System:
		return json.Marshal(typed[System]{TypeSystem, v})
	default:
		return nil, fmt.Errorf("chat: unsupported notification %T", n)
	}
}

package chat

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Router is the per-connection state machine. It decodes inbound frames,
// checks them against the sender's state and drives the Registry and the
// Broadcaster.
type Router struct {
	// mu orders occupancy changes with the broadcasts that report them, so
	// the last count a peer sees is the registry's current count.
	mu sync.Mutex

	registry    *Registry
	broadcaster *Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// Option customizes a Router.
type Option func(*Router)

// WithLogger sets the logger used by the router and its broadcaster.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Router) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithClock replaces the time source used for server-side timestamps.
func WithClock(now func() time.Time) Option {
	return func(rt *Router) {
		if now != nil {
			rt.now = now
		}
	}
}

// NewRouter creates a router with its own Registry and Broadcaster.
func NewRouter(opts ...Option) *Router {
	rt := &Router{
		registry: NewRegistry(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.broadcaster = NewBroadcaster(rt.registry, rt.logger)
	return rt
}

// Count returns the current occupancy.
func (rt *Router) Count() int {
	return rt.registry.Count()
}

// Connect registers a new peer and announces the updated occupancy to every
// connection, the new one included.
func (rt *Router) Connect(out Outbox) ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	id := rt.registry.Register(out)
	count := rt.registry.Count()
	rt.logger.Info("client connected", "clientId", id, "count", count)

	rt.broadcaster.Broadcast(UserCount{Count: count}, NoID)
	return id
}

// Handle processes one inbound frame from id. Malformed frames and events
// that fail their guard are dropped without notifying anyone.
func (rt *Router) Handle(id ID, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("recovered while handling event", "clientId", id, "panic", fmt.Sprint(r))
		}
	}()

	ev, err := DecodeEvent(raw)
	if err != nil {
		rt.logger.Warn("invalid message", "clientId", id, "error", err)
		return
	}

	switch ev := ev.(type) {
	case JoinEvent:
		rt.join(id, ev)
	case LeaveEvent:
		rt.leave(id, ev)
	case MessageEvent:
		rt.message(id, ev)
	case UnknownEvent:
		rt.logger.Warn("unknown event type", "clientId", id, "type", ev.Type)
	}
}

func (rt *Router) join(id ID, ev JoinEvent) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if !rt.registry.SetNickname(id, ev.Sender) {
		rt.logger.Debug("join dropped", "clientId", id, "sender", ev.Sender)
		return
	}

	count := rt.registry.Count()
	rt.logger.Info("user joined", "clientId", id, "sender", ev.Sender)

	rt.broadcaster.Broadcast(Join{
		Sender:    ev.Sender,
		Timestamp: rt.timestamp(ev.Timestamp),
		UserCount: count,
	}, id)

	rt.broadcaster.SendDirect(id, System{
		Content:   fmt.Sprintf("Welcome to the chat, %d online", count),
		Timestamp: FormatTimestamp(rt.now()),
	})
}

// leave announces a departure but leaves the connection registered. The
// authoritative notification is emitted by Disconnect when the transport
// closes.
func (rt *Router) leave(id ID, ev LeaveEvent) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	nickname, ok := rt.registry.NicknameOf(id)
	if !ok {
		rt.logger.Debug("leave dropped", "clientId", id)
		return
	}

	rt.logger.Info("user leaving", "clientId", id, "sender", nickname)
	rt.broadcaster.Broadcast(Leave{
		Sender:    nickname,
		Timestamp: rt.timestamp(ev.Timestamp),
		UserCount: rt.registry.Count() - 1,
	}, NoID)
}

func (rt *Router) message(id ID, ev MessageEvent) {
	nickname, ok := rt.registry.NicknameOf(id)
	if !ok || ev.Content == "" {
		rt.logger.Debug("message dropped", "clientId", id)
		return
	}

	rt.logger.Info("message", "clientId", id, "sender", nickname, "content", ev.Content)
	rt.broadcaster.Broadcast(Message{
		Sender:    nickname,
		Content:   ev.Content,
		Timestamp: rt.timestamp(ev.Timestamp),
	}, id)
}

// Disconnect removes id and emits its terminal notification: Leave when the
// peer had joined, UserCount otherwise. Every way a connection can end goes
// through here; only the first call for an id has any effect.
func (rt *Router) Disconnect(id ID) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	conn, ok := rt.registry.Remove(id)
	if !ok {
		return false
	}

	count := rt.registry.Count()
	rt.logger.Info("client disconnected", "clientId", id, "count", count)

	if conn.Joined() {
		rt.broadcaster.Broadcast(Leave{
			Sender:    conn.Nickname,
			Timestamp: FormatTimestamp(rt.now()),
			UserCount: count,
		}, NoID)
	} else {
		rt.broadcaster.Broadcast(UserCount{Count: count}, NoID)
	}
	return true
}

// Shutdown closes the outbox of every registered connection. Transports are
// expected to observe the closure and call Disconnect.
func (rt *Router) Shutdown() int {
	closed := 0
	rt.registry.ForEachExcept(NoID, func(conn Connection) {
		if conn.Outbox == nil {
			return
		}
		if err := conn.Outbox.Close(); err != nil {
			rt.logger.Debug("closing outbox", "clientId", conn.ID, "error", err)
		}
		closed++
	})
	return closed
}

func (rt *Router) timestamp(client string) string {
	if client != "" {
		return client
	}
	return FormatTimestamp(rt.now())
}

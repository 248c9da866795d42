package chat

import "log/slog"

// Broadcaster serializes notifications and delivers them to registered
// connections. Delivery is fire-and-forget: a recipient whose outbox rejects
// the payload is skipped.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

// NewBroadcaster creates a broadcaster over the connections of registry.
func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{registry: registry, logger: logger}
}

// Broadcast delivers n to every connection except exclude (NoID excludes
// nobody) and returns the number of recipients that accepted it. Every
// recipient receives the same bytes.
func (b *Broadcaster) Broadcast(n Notification, exclude ID) int {
	payload, err := EncodeNotification(n)
	if err != nil {
		b.logger.Error("encode notification", "error", err)
		return 0
	}

	delivered := 0
	b.registry.ForEachExcept(exclude, func(conn Connection) {
		if b.deliver(conn, payload) {
			delivered++
		}
	})
	return delivered
}

// SendDirect delivers n to a single connection.
func (b *Broadcaster) SendDirect(id ID, n Notification) bool {
	payload, err := EncodeNotification(n)
	if err != nil {
		b.logger.Error("encode notification", "error", err)
		return false
	}

	conn, ok := b.registry.Get(id)
	if !ok {
		return false
	}
	return b.deliver(conn, payload)
}

func (b *Broadcaster) deliver(conn Connection, payload []byte) bool {
	if conn.Outbox == nil {
		return false
	}
	if err := conn.Outbox.Send(payload); err != nil {
		b.logger.Debug("skipping recipient", "clientId", conn.ID, "error", err)
		return false
	}
	return true
}

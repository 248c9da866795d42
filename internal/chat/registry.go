package chat

import "sync"

// Registry owns the set of live connections. It is the single source of truth
// for occupancy and nicknames; every mutation and every iteration snapshot is
// serialized by one mutex.
type Registry struct {
	mu          sync.Mutex
	connections map[ID]*Connection
	nextID      ID
}

// NewRegistry creates an empty registry whose first id is 0.
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[ID]*Connection),
	}
}

// Register inserts a new connection in StateConnected and returns its id.
func (r *Registry) Register(out Outbox) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.connections[id] = &Connection{
		ID:     id,
		State:  StateConnected,
		Outbox: out,
	}
	return id
}

// SetNickname moves the connection to StateJoined with the given nickname.
// It reports false, changing nothing, when the connection is gone, already
// joined, or name is empty.
func (r *Registry) SetNickname(id ID, name string) bool {
	if name == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok || conn.State != StateConnected {
		return false
	}
	conn.Nickname = name
	conn.State = StateJoined
	return true
}

// NicknameOf returns the nickname of a joined connection.
func (r *Registry) NicknameOf(id ID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok || conn.State != StateJoined {
		return "", false
	}
	return conn.Nickname, true
}

// Get returns a snapshot of the connection.
func (r *Registry) Get(id ID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok {
		return Connection{}, false
	}
	return *conn, true
}

// Remove deletes the connection and returns its last state. Only the first
// call for an id reports true.
func (r *Registry) Remove(id ID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok {
		return Connection{}, false
	}
	delete(r.connections, id)
	return *conn, true
}

// Count returns the current occupancy.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}

// ForEachExcept calls fn for every connection other than excluded. The set is
// captured under the lock and fn runs after it is released, so fn may call
// back into the registry.
func (r *Registry) ForEachExcept(excluded ID, fn func(Connection)) {
	for _, conn := range r.snapshot(excluded) {
		fn(conn)
	}
}

func (r *Registry) snapshot(excluded ID) []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Connection, 0, len(r.connections))
	for id, conn := range r.connections {
		if id == excluded {
			continue
		}
		conns = append(conns, *conn)
	}
	return conns
}

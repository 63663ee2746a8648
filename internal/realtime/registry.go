package realtime

import (
	"sync"

	"log/slog"

	"github.com/google/uuid"
)

// sendBufferSize bounds each connection's outbound queue. Sends beyond
// capacity are dropped, never blocked on: one slow client must not stall
// a broadcast for everyone else.
const sendBufferSize = 256

// Connection is the registry's handle for one live session: the user it
// belongs to and the outbound event channel owned by that session's
// write loop.
type Connection struct {
	userID uuid.UUID
	ch     chan Event
}

func (c *Connection) UserID() uuid.UUID { return c.userID }

// Events returns the receive side of the outbound queue. The session's
// write loop is the sole reader; the channel is closed at unregister time.
func (c *Connection) Events() <-chan Event { return c.ch }

// Registry owns the outbound channel of every connected user. The user id
// doubles as the connection key: one live connection per user, a second
// connection from the same user displaces the first.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[uuid.UUID]*Connection),
	}
}

// Register creates a fresh bounded channel for the user and stores it.
// An existing connection for the same user is displaced: its channel is
// closed so the old session's write loop drains and exits, and its later
// teardown becomes a no-op against this registry.
func (r *Registry) Register(userID uuid.UUID) *Connection {
	conn := &Connection{
		userID: userID,
		ch:     make(chan Event, sendBufferSize),
	}

	r.mu.Lock()
	if old, ok := r.conns[userID]; ok {
		close(old.ch)
		slog.Info("Displacing existing connection", "userID", userID)
	}
	r.conns[userID] = conn
	r.mu.Unlock()

	slog.Info("Connection registered", "userID", userID)
	return conn
}

// Unregister removes the connection and closes its channel. A no-op when
// the user has no entry or the entry belongs to a newer connection, so a
// displaced session's teardown cannot tear down its successor.
func (r *Registry) Unregister(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[conn.userID]
	if !ok || current != conn {
		return
	}
	delete(r.conns, conn.userID)
	close(conn.ch)
	slog.Info("Connection unregistered", "userID", conn.userID)
}

// Send enqueues an event for the user. Best-effort: if the user has no
// connection or their queue is full the event is dropped and the condition
// logged. Never blocks the caller.
//
// Closing a channel happens under the write lock and sends happen under the
// read lock, so a send can never race a close.
func (r *Registry) Send(userID uuid.UUID, ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	if !ok {
		slog.Debug("Dropping event for disconnected user", "userID", userID, "type", ev.Type)
		return
	}

	select {
	case conn.ch <- ev:
	default:
		slog.Warn("Send buffer full, dropping event", "userID", userID, "type", ev.Type)
	}
}

// IsConnected reports whether the user currently holds a registered connection.
func (r *Registry) IsConnected(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[userID]
	return ok
}

// ConnectedUsers returns a snapshot of all registered user ids.
func (r *Registry) ConnectedUsers() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	return users
}

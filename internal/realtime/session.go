package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"taskboard-service/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size; client commands are small
	maxMessageSize = 4096
)

// Conn is the slice of *websocket.Conn the session needs. Tests substitute
// scripted fakes.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// session is the server-side state of one physical connection: the
// registry handle, the subscription handle, and the two pumps. The read
// and write pumps race to close the session; teardown runs exactly once.
type session struct {
	hub     *Hub
	conn    Conn
	user    models.UserSummary
	reg     *Connection
	info    *ConnectionInfo
	ctx     context.Context
	cancel  context.CancelFunc
	closing sync.Once
}

// HandleConnection authenticates the credential, registers the connection
// and runs the session until it terminates. Blocks for the lifetime of the
// connection; the caller hands over the socket.
func (h *Hub) HandleConnection(conn Conn, credential string) {
	if credential == "" {
		writeEvent(conn, NewAuthenticationError("No token provided"))
		conn.Close()
		return
	}

	authCtx, cancelAuth := context.WithTimeout(context.Background(), 10*time.Second)
	identity, err := h.verifier.VerifyCredential(authCtx, credential)
	cancelAuth()
	if err != nil {
		slog.Info("WebSocket authentication failed", "error", err)
		writeEvent(conn, NewAuthenticationError("Invalid token"))
		conn.Close()
		return
	}

	// The client must see the auth result before any other event.
	if err := writeEvent(conn, NewAuthenticationSuccess(identity.UserID)); err != nil {
		slog.Debug("Failed to send auth success", "userID", identity.UserID, "error", err)
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		hub:    h,
		conn:   conn,
		user:   h.resolveSummary(identity),
		reg:    h.registry.Register(identity.UserID),
		info:   h.subs.Add(identity.UserID),
		ctx:    ctx,
		cancel: cancel,
	}

	if h.presence != nil {
		if err := h.presence.SetUserOnline(ctx, identity.UserID); err != nil {
			slog.Error("Failed to set user online", "userID", identity.UserID, "error", err)
		}
	}

	go s.writePump()
	s.readPump()
}

// resolveSummary fetches the public profile for presence payloads, falling
// back to the bare identity when the directory lookup fails.
func (h *Hub) resolveSummary(identity *Identity) models.UserSummary {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := h.users.Summary(ctx, identity.UserID)
	if err != nil {
		slog.Warn("User directory lookup failed", "userID", identity.UserID, "error", err)
		return models.UserSummary{ID: identity.UserID, DisplayName: identity.DisplayName}
	}
	return summary
}

// readPump reads client frames, decodes them to typed commands and
// dispatches them. Runs on the caller's goroutine; its exit drives teardown.
func (s *session) readPump() {
	defer s.teardown()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		s.hub.subs.Touch(s.user.ID)
		return nil
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "userID", s.user.ID, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "userID", s.user.ID, "error", err)
			}
			return
		}

		s.hub.subs.Touch(s.user.ID)

		ev, err := DecodeClientEvent(frame)
		if err != nil {
			// A malformed frame is reported to the sender but does not
			// terminate the session.
			slog.Warn("Rejected client frame", "userID", s.user.ID, "error", err)
			s.sendToSelf(NewError("invalid message format"))
			continue
		}

		s.dispatch(ev)
	}
}

func (s *session) dispatch(ev Event) {
	switch ev.Type {
	case EventSubscribe:
		var data SubscriptionData
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			s.sendToSelf(NewError("invalid message format"))
			return
		}
		s.handleSubscribe(data.ProjectID)

	case EventUnsubscribe:
		var data SubscriptionData
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			s.sendToSelf(NewError("invalid message format"))
			return
		}
		s.handleUnsubscribe(data.ProjectID)

	case EventUserTyping, EventUserStoppedTyping:
		var data TypingData
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			s.sendToSelf(NewError("invalid message format"))
			return
		}
		// Stamp the sender identity server-side so a client cannot claim
		// to be someone else, then relay to the project's other subscribers.
		data.User = s.user
		data.Timestamp = time.Now().UTC()
		s.hub.broadcaster.BroadcastToProject(data.ProjectID, newEvent(ev.Type, data), s.user.ID)

	case EventPong:
		s.hub.subs.Touch(s.user.ID)
	}
}

// handleSubscribe checks membership, records the subscription and notifies
// the project's other subscribers. Authorization failures are soft: the
// session stays open.
func (s *session) handleSubscribe(projectID uuid.UUID) {
	member, err := s.hub.members.IsProjectMember(s.ctx, projectID, s.user.ID)
	if err != nil {
		slog.Error("Membership check failed", "userID", s.user.ID, "projectID", projectID, "error", err)
		s.sendToSelf(NewSubscriptionError("Unable to verify project membership"))
		return
	}
	if !member {
		s.sendToSelf(NewSubscriptionError("Not a project member"))
		return
	}

	added := s.hub.subs.Subscribe(s.user.ID, projectID)
	if added {
		s.hub.broadcaster.BroadcastToProject(projectID, NewUserJoined(s.user, projectID), s.user.ID)
	}
	s.sendToSelf(NewSubscriptionSuccess(projectID))

	slog.Debug("User subscribed to project", "userID", s.user.ID, "projectID", projectID)
}

// handleUnsubscribe removes the subscription if present. Unsubscribing from
// a project never subscribed to is a silent no-op.
func (s *session) handleUnsubscribe(projectID uuid.UUID) {
	removed := s.hub.subs.Unsubscribe(s.user.ID, projectID)
	if removed {
		s.hub.broadcaster.BroadcastToProject(projectID, NewUserLeft(s.user, projectID), s.user.ID)
	}

	slog.Debug("User unsubscribed from project", "userID", s.user.ID, "projectID", projectID)
}

// writePump drains the connection's outbound queue to the socket and keeps
// the connection alive with pings. Exits when the queue is closed, a write
// fails or the session context is cancelled; any exit drives teardown.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.teardown()
	}()

	for {
		select {
		case ev, ok := <-s.reg.Events():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Unregistered: tell the peer we are going away.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("Failed to serialize event", "userID", s.user.ID, "type", ev.Type, "error", err)
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("WebSocket write failed", "userID", s.user.ID, "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Failed to send ping", "userID", s.user.ID, "error", err)
				return
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// teardown converges the inbound and outbound loops on one idempotent
// cleanup: leave notifications for every subscribed project, then
// unregister. Safe to call from both pumps.
func (s *session) teardown() {
	s.closing.Do(func() {
		s.cancel()

		projects, removed := s.hub.subs.Remove(s.info)
		if removed {
			for _, projectID := range projects {
				s.hub.broadcaster.BroadcastToProject(projectID, NewUserLeft(s.user, projectID), s.user.ID)
			}
		}

		s.hub.registry.Unregister(s.reg)

		// A displaced session must not mark its successor offline.
		if removed && s.hub.presence != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.hub.presence.SetUserOffline(ctx, s.user.ID); err != nil {
				slog.Error("Failed to set user offline", "userID", s.user.ID, "error", err)
			}
			cancel()
		}

		s.conn.Close()
		slog.Info("Session closed", "userID", s.user.ID, "projects", len(projects))
	})
}

// sendToSelf enqueues an event on this session's own outbound queue.
func (s *session) sendToSelf(ev Event) {
	s.hub.registry.Send(s.user.ID, ev)
}

// writeEvent writes directly to the socket, used only before the
// connection is registered (auth handshake).
func writeEvent(conn Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

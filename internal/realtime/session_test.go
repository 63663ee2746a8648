package realtime

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleConnectionAuth(t *testing.T) {
	t.Run("missing credential is refused before registration", func(t *testing.T) {
		th := newTestHub()
		conn := newFakeConn()

		th.hub.HandleConnection(conn, "")

		require.Equal(t, 1, conn.countEvents(EventAuthenticationError))
		assert.True(t, conn.isClosed())
		assert.Empty(t, th.hub.registry.ConnectedUsers())
	})

	t.Run("invalid credential closes before any command is read", func(t *testing.T) {
		th := newTestHub()
		conn := newFakeConn()

		// A client may pipeline a subscribe behind a bad token; it must
		// never be processed.
		conn.send(t, subscribeEvent(t, uuid.New()))
		th.hub.HandleConnection(conn, "expired-token")

		require.Equal(t, 1, conn.countEvents(EventAuthenticationError))
		assert.Zero(t, conn.countEvents(EventSubscriptionSuccess))
		assert.Zero(t, conn.countEvents(EventSubscriptionError))
		assert.True(t, conn.isClosed())
		assert.Empty(t, th.hub.registry.ConnectedUsers())
	})

	t.Run("valid credential gets auth success first", func(t *testing.T) {
		th := newTestHub()
		userID := uuid.New()

		conn := th.connect(t, userID)
		defer th.shutdown(t, conn)

		events := conn.events()
		require.NotEmpty(t, events)
		assert.Equal(t, EventAuthenticationSuccess, events[0].Type)

		var data AuthSuccessData
		require.NoError(t, json.Unmarshal(events[0].Data, &data))
		assert.Equal(t, userID, data.UserID)
	})
}

func TestSessionSubscribe(t *testing.T) {
	t.Run("member subscribe is acked and recorded", func(t *testing.T) {
		th := newTestHub()
		userID, projectID := uuid.New(), uuid.New()
		th.oracle.allow(projectID, userID)

		conn := th.connect(t, userID)
		defer th.shutdown(t, conn)

		th.subscribe(t, conn, projectID)
		assert.True(t, th.hub.subs.IsSubscribed(userID, projectID))
	})

	t.Run("non-member gets subscription error and stays connected", func(t *testing.T) {
		th := newTestHub()
		userID := uuid.New()
		forbidden, allowed := uuid.New(), uuid.New()
		th.oracle.allow(allowed, userID)

		conn := th.connect(t, userID)
		defer th.shutdown(t, conn)

		conn.send(t, subscribeEvent(t, forbidden))
		waitFor(t, func() bool { return conn.countEvents(EventSubscriptionError) == 1 }, "subscription error delivered")
		assert.False(t, th.hub.subs.IsSubscribed(userID, forbidden))

		// The refusal is soft: the same session can still subscribe elsewhere.
		th.subscribe(t, conn, allowed)
	})

	t.Run("oracle failure surfaces as subscription error", func(t *testing.T) {
		th := newTestHub()
		th.oracle.err = errors.New("database unavailable")
		userID := uuid.New()

		conn := th.connect(t, userID)
		defer th.shutdown(t, conn)

		conn.send(t, subscribeEvent(t, uuid.New()))
		waitFor(t, func() bool { return conn.countEvents(EventSubscriptionError) == 1 }, "subscription error delivered")
	})

	t.Run("subscribe announces join to other subscribers only", func(t *testing.T) {
		th := newTestHub()
		projectID := uuid.New()
		alice, bob := uuid.New(), uuid.New()
		th.oracle.allow(projectID, alice)
		th.oracle.allow(projectID, bob)

		connA := th.connect(t, alice)
		connB := th.connect(t, bob)
		defer th.shutdown(t, connA, connB)

		th.subscribe(t, connB, projectID)
		th.subscribe(t, connA, projectID)

		waitFor(t, func() bool { return connB.countEvents(EventUserJoined) == 1 }, "join announced to bob")
		assert.Zero(t, connA.countEvents(EventUserJoined))
	})

	t.Run("duplicate subscribe acks again but announces once", func(t *testing.T) {
		th := newTestHub()
		projectID := uuid.New()
		alice, bob := uuid.New(), uuid.New()
		th.oracle.allow(projectID, alice)
		th.oracle.allow(projectID, bob)

		connA := th.connect(t, alice)
		connB := th.connect(t, bob)
		defer th.shutdown(t, connA, connB)

		th.subscribe(t, connB, projectID)
		th.subscribe(t, connA, projectID)
		th.subscribe(t, connA, projectID)

		settle()
		assert.Equal(t, 2, connA.countEvents(EventSubscriptionSuccess))
		assert.Equal(t, 1, connB.countEvents(EventUserJoined))
	})
}

func TestSessionUnsubscribe(t *testing.T) {
	t.Run("unsubscribe announces leave to remaining subscribers", func(t *testing.T) {
		th := newTestHub()
		projectID := uuid.New()
		alice, bob := uuid.New(), uuid.New()
		th.oracle.allow(projectID, alice)
		th.oracle.allow(projectID, bob)

		connA := th.connect(t, alice)
		connB := th.connect(t, bob)
		defer th.shutdown(t, connA, connB)

		th.subscribe(t, connA, projectID)
		th.subscribe(t, connB, projectID)

		connA.send(t, unsubscribeEvent(t, projectID))
		waitFor(t, func() bool { return connB.countEvents(EventUserLeft) == 1 }, "leave announced to bob")
		assert.False(t, th.hub.subs.IsSubscribed(alice, projectID))
	})

	t.Run("unsubscribe without subscription announces nothing", func(t *testing.T) {
		th := newTestHub()
		projectID := uuid.New()
		alice, bob := uuid.New(), uuid.New()
		th.oracle.allow(projectID, bob)

		connA := th.connect(t, alice)
		connB := th.connect(t, bob)
		defer th.shutdown(t, connA, connB)

		th.subscribe(t, connB, projectID)

		connA.send(t, unsubscribeEvent(t, projectID))
		settle()
		assert.Zero(t, connB.countEvents(EventUserLeft))
	})
}

func TestSessionMalformedFrames(t *testing.T) {
	th := newTestHub()
	userID, projectID := uuid.New(), uuid.New()
	th.oracle.allow(projectID, userID)

	conn := th.connect(t, userID)
	defer th.shutdown(t, conn)

	t.Run("invalid json yields error event, session survives", func(t *testing.T) {
		conn.sendRaw(t, []byte(`{not json`))
		waitFor(t, func() bool { return conn.countEvents(EventError) == 1 }, "error event delivered")
		assert.True(t, th.hub.registry.IsConnected(userID))
	})

	t.Run("server-only tag yields error event", func(t *testing.T) {
		conn.sendRaw(t, []byte(`{"type":"TaskCreated","data":{}}`))
		waitFor(t, func() bool { return conn.countEvents(EventError) == 2 }, "error event delivered")
	})

	t.Run("session still processes commands afterwards", func(t *testing.T) {
		th.subscribe(t, conn, projectID)
	})
}

func TestSessionTypingRelay(t *testing.T) {
	th := newTestHub()
	projectID, taskID := uuid.New(), uuid.New()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	th.oracle.allow(projectID, alice)
	th.oracle.allow(projectID, bob)

	connA := th.connect(t, alice)
	connB := th.connect(t, bob)
	connC := th.connect(t, carol)
	defer th.shutdown(t, connA, connB, connC)

	th.subscribe(t, connA, projectID)
	th.subscribe(t, connB, projectID)

	data, err := json.Marshal(TypingData{TaskID: taskID, ProjectID: projectID})
	require.NoError(t, err)
	connA.send(t, Event{Type: EventUserTyping, Data: data})

	waitFor(t, func() bool { return connB.countEvents(EventUserTyping) == 1 }, "typing relayed to bob")

	// The typer and the unsubscribed user hear nothing.
	settle()
	assert.Zero(t, connA.countEvents(EventUserTyping))
	assert.Zero(t, connC.countEvents(EventUserTyping))
}

func TestSessionDisconnect(t *testing.T) {
	t.Run("disconnect announces one leave per subscribed project", func(t *testing.T) {
		th := newTestHub()
		p1, p2 := uuid.New(), uuid.New()
		alice, bob := uuid.New(), uuid.New()
		th.oracle.allow(p1, alice)
		th.oracle.allow(p2, alice)
		th.oracle.allow(p1, bob)
		th.oracle.allow(p2, bob)

		connA := th.connect(t, alice)
		connB := th.connect(t, bob)

		th.subscribe(t, connA, p1)
		th.subscribe(t, connA, p2)
		th.subscribe(t, connB, p1)
		th.subscribe(t, connB, p2)

		connA.Close()
		waitFor(t, func() bool { return !th.hub.registry.IsConnected(alice) }, "alice unregistered")
		waitFor(t, func() bool { return connB.countEvents(EventUserLeft) == 2 }, "one leave per project")

		settle()
		assert.Equal(t, 2, connB.countEvents(EventUserLeft))
		assert.Empty(t, th.hub.subs.SubscribedProjects(alice))

		th.shutdown(t, connB)
	})

	t.Run("broadcasts skip the disconnected user", func(t *testing.T) {
		th := newTestHub()
		projectID := uuid.New()
		userID := uuid.New()
		th.oracle.allow(projectID, userID)

		conn := th.connect(t, userID)
		th.subscribe(t, conn, projectID)

		conn.Close()
		waitFor(t, func() bool { return !th.hub.registry.IsConnected(userID) }, "user unregistered")

		// Must not panic and must deliver to nobody.
		th.hub.Broadcaster().BroadcastToProject(projectID, NewError("ping"), uuid.Nil)
		th.shutdown(t)
	})
}

func TestSessionDisplacement(t *testing.T) {
	th := newTestHub()
	projectID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	th.oracle.allow(projectID, alice)
	th.oracle.allow(projectID, bob)

	connB := th.connect(t, bob)
	th.subscribe(t, connB, projectID)

	first := th.connect(t, alice)
	th.subscribe(t, first, projectID)
	waitFor(t, func() bool { return connB.countEvents(EventUserJoined) == 1 }, "first join announced")

	// A second connection for the same user displaces the first.
	second := th.connect(t, alice)
	waitFor(t, func() bool { return first.isClosed() }, "first connection torn down")

	// The displaced session left no subscriptions behind and the new one
	// starts clean.
	assert.True(t, th.hub.registry.IsConnected(alice))
	assert.Empty(t, th.hub.subs.SubscribedProjects(alice))

	// The new session subscribes independently and receives broadcasts.
	th.subscribe(t, second, projectID)
	th.hub.Broadcaster().BroadcastToProject(projectID, NewTaskDeleted(uuid.New(), projectID), uuid.Nil)
	waitFor(t, func() bool { return second.countEvents(EventTaskDeleted) == 1 }, "broadcast reaches new connection")

	th.shutdown(t, second, connB)
}

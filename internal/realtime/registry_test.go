package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	t.Run("registers connection", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()

		conn := registry.Register(userID)
		require.NotNil(t, conn)
		assert.Equal(t, userID, conn.UserID())
		assert.True(t, registry.IsConnected(userID))
	})

	t.Run("second connection displaces the first", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()

		first := registry.Register(userID)
		second := registry.Register(userID)

		// The first channel is closed so its write loop can exit.
		_, open := <-first.Events()
		assert.False(t, open)

		// Sends go to the surviving connection only.
		registry.Send(userID, NewPong())
		select {
		case ev := <-second.Events():
			assert.Equal(t, EventPong, ev.Type)
		default:
			t.Fatal("expected event on surviving connection")
		}
	})

	t.Run("displaced teardown does not unregister successor", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()

		first := registry.Register(userID)
		registry.Register(userID)

		registry.Unregister(first)
		assert.True(t, registry.IsConnected(userID))
	})
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()
	conn := registry.Register(userID)

	registry.Unregister(conn)
	assert.False(t, registry.IsConnected(userID))

	_, open := <-conn.Events()
	assert.False(t, open)

	// Second unregister of the same handle is a no-op.
	registry.Unregister(conn)
}

func TestRegistrySend(t *testing.T) {
	t.Run("delivers to registered connection", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		conn := registry.Register(userID)

		registry.Send(userID, NewError("boom"))

		ev := <-conn.Events()
		assert.Equal(t, EventError, ev.Type)
	})

	t.Run("drops for disconnected user", func(t *testing.T) {
		registry := NewRegistry()
		// Must not panic or block.
		registry.Send(uuid.New(), NewPong())
	})

	t.Run("drops when buffer is full without blocking", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		conn := registry.Register(userID)

		for i := 0; i < sendBufferSize+10; i++ {
			registry.Send(userID, NewPong())
		}

		// Exactly the buffered events survive; the overflow was dropped.
		assert.Len(t, conn.ch, sendBufferSize)
	})
}

func TestRegistryConnectedUsers(t *testing.T) {
	registry := NewRegistry()
	a, b := uuid.New(), uuid.New()
	registry.Register(a)
	connB := registry.Register(b)

	assert.ElementsMatch(t, []uuid.UUID{a, b}, registry.ConnectedUsers())

	registry.Unregister(connB)
	assert.ElementsMatch(t, []uuid.UUID{a}, registry.ConnectedUsers())
}

package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func drain(conn *Connection) []Event {
	var out []Event
	for {
		select {
		case ev := <-conn.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestBroadcastToProject(t *testing.T) {
	setup := func() (*Broadcaster, *Registry, *SubscriptionStore) {
		registry := NewRegistry()
		subs := NewSubscriptionStore()
		return NewBroadcaster(registry, subs), registry, subs
	}

	t.Run("delivers only to subscribed connections", func(t *testing.T) {
		b, registry, subs := setup()
		projectID := uuid.New()
		subscriber, bystander := uuid.New(), uuid.New()

		connSub := registry.Register(subscriber)
		subs.Add(subscriber)
		subs.Subscribe(subscriber, projectID)

		connBys := registry.Register(bystander)
		subs.Add(bystander)

		b.BroadcastToProject(projectID, NewError("ping"), uuid.Nil)

		assert.Len(t, drain(connSub), 1)
		assert.Empty(t, drain(connBys))
	})

	t.Run("excludes the acting user", func(t *testing.T) {
		b, registry, subs := setup()
		projectID := uuid.New()
		actor, other := uuid.New(), uuid.New()

		connActor := registry.Register(actor)
		subs.Add(actor)
		subs.Subscribe(actor, projectID)

		connOther := registry.Register(other)
		subs.Add(other)
		subs.Subscribe(other, projectID)

		b.BroadcastToProject(projectID, NewTaskDeleted(uuid.New(), projectID), actor)

		assert.Empty(t, drain(connActor))
		assert.Len(t, drain(connOther), 1)
	})

	t.Run("nil exclude reaches everyone", func(t *testing.T) {
		b, registry, subs := setup()
		projectID := uuid.New()

		var conns []*Connection
		for i := 0; i < 3; i++ {
			userID := uuid.New()
			conns = append(conns, registry.Register(userID))
			subs.Add(userID)
			subs.Subscribe(userID, projectID)
		}

		b.BroadcastToProject(projectID, NewError("ping"), uuid.Nil)

		for _, conn := range conns {
			assert.Len(t, drain(conn), 1)
		}
	})

	t.Run("nothing delivered after unregister", func(t *testing.T) {
		b, registry, subs := setup()
		projectID := uuid.New()
		userID := uuid.New()

		conn := registry.Register(userID)
		info := subs.Add(userID)
		subs.Subscribe(userID, projectID)

		subs.Remove(info)
		registry.Unregister(conn)

		// Must not panic on the closed channel or the missing entry.
		b.BroadcastToProject(projectID, NewError("ping"), uuid.Nil)
	})

	t.Run("no subscribers is a quiet no-op", func(t *testing.T) {
		b, _, _ := setup()
		b.BroadcastToProject(uuid.New(), NewError("ping"), uuid.Nil)
	})
}

func TestSendToUser(t *testing.T) {
	registry := NewRegistry()
	subs := NewSubscriptionStore()
	b := NewBroadcaster(registry, subs)

	userID := uuid.New()
	conn := registry.Register(userID)

	// Direct sends bypass subscription filtering entirely.
	b.SendToUser(userID, NewSubscriptionSuccess(uuid.New()))
	assert.Len(t, drain(conn), 1)

	b.SendToUser(uuid.New(), NewPong())
}

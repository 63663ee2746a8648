package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionStoreSubscribe(t *testing.T) {
	t.Run("first subscribe reports added", func(t *testing.T) {
		store := NewSubscriptionStore()
		userID, projectID := uuid.New(), uuid.New()
		store.Add(userID)

		assert.True(t, store.Subscribe(userID, projectID))
		assert.True(t, store.IsSubscribed(userID, projectID))
	})

	t.Run("duplicate subscribe is idempotent", func(t *testing.T) {
		store := NewSubscriptionStore()
		userID, projectID := uuid.New(), uuid.New()
		store.Add(userID)

		assert.True(t, store.Subscribe(userID, projectID))
		assert.False(t, store.Subscribe(userID, projectID))
		assert.Len(t, store.SubscribedProjects(userID), 1)
	})

	t.Run("subscribe without a connection entry is rejected", func(t *testing.T) {
		store := NewSubscriptionStore()
		assert.False(t, store.Subscribe(uuid.New(), uuid.New()))
	})
}

func TestSubscriptionStoreUnsubscribe(t *testing.T) {
	store := NewSubscriptionStore()
	userID, projectID := uuid.New(), uuid.New()
	store.Add(userID)

	t.Run("unsubscribe without subscription is a no-op", func(t *testing.T) {
		assert.False(t, store.Unsubscribe(userID, projectID))
	})

	t.Run("unsubscribe removes the subscription", func(t *testing.T) {
		store.Subscribe(userID, projectID)
		assert.True(t, store.Unsubscribe(userID, projectID))
		assert.False(t, store.IsSubscribed(userID, projectID))
	})
}

func TestSubscriptionStoreRemove(t *testing.T) {
	t.Run("returns subscribed projects once", func(t *testing.T) {
		store := NewSubscriptionStore()
		userID := uuid.New()
		p1, p2 := uuid.New(), uuid.New()

		info := store.Add(userID)
		store.Subscribe(userID, p1)
		store.Subscribe(userID, p2)

		projects, removed := store.Remove(info)
		require.True(t, removed)
		assert.ElementsMatch(t, []uuid.UUID{p1, p2}, projects)

		// Second removal of the same handle reports nothing to announce.
		projects, removed = store.Remove(info)
		assert.False(t, removed)
		assert.Empty(t, projects)
	})

	t.Run("stale handle cannot remove successor entry", func(t *testing.T) {
		store := NewSubscriptionStore()
		userID, projectID := uuid.New(), uuid.New()

		stale := store.Add(userID)
		store.Add(userID)
		store.Subscribe(userID, projectID)

		_, removed := store.Remove(stale)
		assert.False(t, removed)
		assert.True(t, store.IsSubscribed(userID, projectID))
	})
}

func TestSubscribersOf(t *testing.T) {
	store := NewSubscriptionStore()
	projectID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	store.Add(a)
	store.Add(b)
	store.Add(c)
	store.Subscribe(a, projectID)
	store.Subscribe(b, projectID)
	store.Subscribe(c, uuid.New())

	assert.ElementsMatch(t, []uuid.UUID{a, b}, store.SubscribersOf(projectID))
	assert.Empty(t, store.SubscribersOf(uuid.New()))
}

func TestLastSeen(t *testing.T) {
	store := NewSubscriptionStore()
	userID := uuid.New()

	_, ok := store.LastSeen(userID)
	assert.False(t, ok)

	store.Add(userID)
	before, ok := store.LastSeen(userID)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	store.Touch(userID)

	after, ok := store.LastSeen(userID)
	require.True(t, ok)
	assert.True(t, after.After(before))
}

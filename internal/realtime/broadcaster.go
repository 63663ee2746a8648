package realtime

import (
	"log/slog"

	"github.com/google/uuid"
)

// Broadcaster fans domain events out to project subscribers. This is the
// surface the REST handlers call after a successful mutation; sessions use
// it for presence and typing relays.
//
// Delivery is best-effort and at-most-once: the subscriber snapshot and the
// sends are not atomic with concurrent subscription changes, and a full
// outbound queue drops the event.
type Broadcaster struct {
	registry *Registry
	subs     *SubscriptionStore
}

func NewBroadcaster(registry *Registry, subs *SubscriptionStore) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		subs:     subs,
	}
}

// BroadcastToProject delivers the event to every connection currently
// subscribed to the project, skipping excludeUser. Pass uuid.Nil to
// exclude nobody.
func (b *Broadcaster) BroadcastToProject(projectID uuid.UUID, ev Event, excludeUser uuid.UUID) {
	subscribers := b.subs.SubscribersOf(projectID)

	delivered := 0
	for _, userID := range subscribers {
		if userID == excludeUser {
			continue
		}
		b.registry.Send(userID, ev)
		delivered++
	}

	slog.Debug("Broadcast to project", "projectID", projectID, "type", ev.Type, "recipients", delivered)
}

// SendToUser delivers the event directly, bypassing subscription filtering.
// Used for subscription acks, auth results and errors.
func (b *Broadcaster) SendToUser(userID uuid.UUID, ev Event) {
	b.registry.Send(userID, ev)
}

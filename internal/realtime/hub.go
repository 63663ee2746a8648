package realtime

import (
	"context"

	"github.com/google/uuid"

	"taskboard-service/internal/models"
)

// Identity is what a verified credential resolves to.
type Identity struct {
	UserID      uuid.UUID
	DisplayName string
}

// IdentityVerifier turns a bearer credential into an identity or fails.
// Implemented outside this package (JWT verification backed by the user store).
type IdentityVerifier interface {
	VerifyCredential(ctx context.Context, credential string) (*Identity, error)
}

// MembershipOracle answers whether a user may see a project's events.
// Membership is checked at subscribe time only; a user removed from a
// project mid-session keeps receiving events until they unsubscribe or
// disconnect.
type MembershipOracle interface {
	IsProjectMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

// UserDirectory resolves a user id to its public profile for presence events.
type UserDirectory interface {
	Summary(ctx context.Context, userID uuid.UUID) (models.UserSummary, error)
}

// PresenceTracker mirrors connect/disconnect into an external status cache.
// Optional; a nil tracker disables it.
type PresenceTracker interface {
	SetUserOnline(ctx context.Context, userID uuid.UUID) error
	SetUserOffline(ctx context.Context, userID uuid.UUID) error
}

// Hub bundles the realtime stores with the collaborators sessions need.
// One hub per server instance, constructed at startup and injected; never
// a package-level singleton, so tests get fresh instances.
type Hub struct {
	registry    *Registry
	subs        *SubscriptionStore
	broadcaster *Broadcaster

	verifier IdentityVerifier
	members  MembershipOracle
	users    UserDirectory
	presence PresenceTracker
}

func NewHub(verifier IdentityVerifier, members MembershipOracle, users UserDirectory, presence PresenceTracker) *Hub {
	registry := NewRegistry()
	subs := NewSubscriptionStore()

	return &Hub{
		registry:    registry,
		subs:        subs,
		broadcaster: NewBroadcaster(registry, subs),
		verifier:    verifier,
		members:     members,
		users:       users,
		presence:    presence,
	}
}

// Broadcaster exposes the fan-out surface to the REST layer.
func (h *Hub) Broadcaster() *Broadcaster { return h.broadcaster }

// Registry exposes connection state, mainly for monitoring endpoints.
func (h *Hub) Registry() *Registry { return h.registry }

// Subscriptions exposes subscription state for monitoring and tests.
func (h *Hub) Subscriptions() *SubscriptionStore { return h.subs }

package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ConnectionInfo tracks what one connected user is watching and when they
// were last active. All access goes through the SubscriptionStore's lock.
type ConnectionInfo struct {
	UserID   uuid.UUID
	projects map[uuid.UUID]bool
	lastSeen time.Time
}

// SubscriptionStore owns the project subscription set of every connected
// user. An entry exists for a user exactly while their connection is
// registered. The store performs no authorization: callers confirm
// membership before subscribing.
type SubscriptionStore struct {
	mu   sync.RWMutex
	info map[uuid.UUID]*ConnectionInfo
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		info: make(map[uuid.UUID]*ConnectionInfo),
	}
}

// Add creates an empty subscription entry for the user, displacing any
// existing one. The returned handle identifies this session's entry so a
// displaced session cannot remove its successor's.
func (s *SubscriptionStore) Add(userID uuid.UUID) *ConnectionInfo {
	info := &ConnectionInfo{
		UserID:   userID,
		projects: make(map[uuid.UUID]bool),
		lastSeen: time.Now(),
	}

	s.mu.Lock()
	s.info[userID] = info
	s.mu.Unlock()
	return info
}

// Remove deletes the entry if it still belongs to the given handle and
// returns the projects it was subscribed to at removal time, for leave
// notifications. Safe to call twice: the second call reports removed=false.
func (s *SubscriptionStore) Remove(info *ConnectionInfo) (projects []uuid.UUID, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.info[info.UserID]
	if !ok || current != info {
		return nil, false
	}
	delete(s.info, info.UserID)

	projects = make([]uuid.UUID, 0, len(info.projects))
	for projectID := range info.projects {
		projects = append(projects, projectID)
	}
	return projects, true
}

// Subscribe adds the project to the user's set and refreshes last-seen.
// Idempotent; added reports whether the project was newly added, so the
// caller emits at most one presence event per effective subscribe.
func (s *SubscriptionStore) Subscribe(userID, projectID uuid.UUID) (added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.info[userID]
	if !ok {
		return false
	}
	added = !info.projects[projectID]
	info.projects[projectID] = true
	info.lastSeen = time.Now()
	return added
}

// Unsubscribe removes the project if present. Idempotent.
func (s *SubscriptionStore) Unsubscribe(userID, projectID uuid.UUID) (removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.info[userID]
	if !ok {
		return false
	}
	removed = info.projects[projectID]
	delete(info.projects, projectID)
	info.lastSeen = time.Now()
	return removed
}

func (s *SubscriptionStore) IsSubscribed(userID, projectID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.info[userID]
	return ok && info.projects[projectID]
}

// SubscribedProjects returns a snapshot of the user's subscription set.
func (s *SubscriptionStore) SubscribedProjects(userID uuid.UUID) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.info[userID]
	if !ok {
		return nil
	}
	projects := make([]uuid.UUID, 0, len(info.projects))
	for projectID := range info.projects {
		projects = append(projects, projectID)
	}
	return projects
}

// SubscribersOf returns every connected user subscribed to the project.
// A linear scan over connected users, as fan-out is per-event and
// connection counts are modest.
func (s *SubscriptionStore) SubscribersOf(projectID uuid.UUID) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []uuid.UUID
	for userID, info := range s.info {
		if info.projects[projectID] {
			users = append(users, userID)
		}
	}
	return users
}

// Touch refreshes the user's last-seen timestamp on any activity.
func (s *SubscriptionStore) Touch(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.info[userID]; ok {
		info.lastSeen = time.Now()
	}
}

// LastSeen returns the user's last activity timestamp.
func (s *SubscriptionStore) LastSeen(userID uuid.UUID) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.info[userID]
	if !ok {
		return time.Time{}, false
	}
	return info.lastSeen, true
}

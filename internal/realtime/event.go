package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"taskboard-service/internal/models"
)

// EventType tags every frame on the wire. The set is closed: frames with an
// unknown tag are rejected as protocol violations rather than ignored.
type EventType string

const (
	// Authentication events
	EventAuthenticationSuccess EventType = "AuthenticationSuccess"
	EventAuthenticationError   EventType = "AuthenticationError"

	// Subscription events
	EventSubscribe           EventType = "Subscribe"
	EventUnsubscribe         EventType = "Unsubscribe"
	EventSubscriptionSuccess EventType = "SubscriptionSuccess"
	EventSubscriptionError   EventType = "SubscriptionError"

	// Task events
	EventTaskCreated EventType = "TaskCreated"
	EventTaskUpdated EventType = "TaskUpdated"
	EventTaskDeleted EventType = "TaskDeleted"
	EventTaskMoved   EventType = "TaskMoved"

	// Board events
	EventBoardCreated EventType = "BoardCreated"
	EventBoardUpdated EventType = "BoardUpdated"
	EventBoardDeleted EventType = "BoardDeleted"

	// Comment events
	EventCommentCreated EventType = "CommentCreated"
	EventCommentDeleted EventType = "CommentDeleted"

	// User presence events
	EventUserJoined        EventType = "UserJoined"
	EventUserLeft          EventType = "UserLeft"
	EventUserTyping        EventType = "UserTyping"
	EventUserStoppedTyping EventType = "UserStoppedTyping"

	// Control events
	EventError EventType = "Error"
	EventPong  EventType = "Pong"
)

// IsValid checks if the EventType is a member of the closed set
func (t EventType) IsValid() bool {
	switch t {
	case EventAuthenticationSuccess, EventAuthenticationError,
		EventSubscribe, EventUnsubscribe, EventSubscriptionSuccess, EventSubscriptionError,
		EventTaskCreated, EventTaskUpdated, EventTaskDeleted, EventTaskMoved,
		EventBoardCreated, EventBoardUpdated, EventBoardDeleted,
		EventCommentCreated, EventCommentDeleted,
		EventUserJoined, EventUserLeft, EventUserTyping, EventUserStoppedTyping,
		EventError, EventPong:
		return true
	default:
		return false
	}
}

// IsClientEvent reports whether clients are allowed to send this tag.
// Everything else is server-to-client only.
func (t EventType) IsClientEvent() bool {
	switch t {
	case EventSubscribe, EventUnsubscribe, EventUserTyping, EventUserStoppedTyping, EventPong:
		return true
	default:
		return false
	}
}

// Event is the wire envelope: a tag plus a tag-specific payload.
// Tag-less variants (Pong) omit data entirely.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var (
	ErrUnknownEventType = fmt.Errorf("unknown event type")
	ErrServerOnlyEvent  = fmt.Errorf("event type is server-to-client only")
)

// DecodeClientEvent parses an inbound frame and enforces the closed tag set.
// Unknown tags and server-only tags are both protocol violations.
func DecodeClientEvent(frame []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		return Event{}, fmt.Errorf("malformed frame: %w", err)
	}
	if !ev.Type.IsValid() {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
	if !ev.Type.IsClientEvent() {
		return Event{}, fmt.Errorf("%w: %q", ErrServerOnlyEvent, ev.Type)
	}
	return ev, nil
}

/** -------------------- Payloads -------------------- */

type AuthSuccessData struct {
	UserID uuid.UUID `json:"user_id"`
}

// MessageData carries AuthenticationError, SubscriptionError and Error payloads.
type MessageData struct {
	Message string `json:"message"`
}

// SubscriptionData carries Subscribe, Unsubscribe and SubscriptionSuccess payloads.
type SubscriptionData struct {
	ProjectID uuid.UUID `json:"project_id"`
}

type TaskEventData struct {
	Task      models.Task        `json:"task"`
	ProjectID uuid.UUID          `json:"project_id"`
	User      models.UserSummary `json:"user"`
}

type TaskDeletedData struct {
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

type TaskMovedData struct {
	TaskID     uuid.UUID          `json:"task_id"`
	FromStatus models.TaskStatus  `json:"from_status"`
	ToStatus   models.TaskStatus  `json:"to_status"`
	Position   int                `json:"position"`
	ProjectID  uuid.UUID          `json:"project_id"`
	User       models.UserSummary `json:"user"`
}

type BoardEventData struct {
	Board     models.Board       `json:"board"`
	ProjectID uuid.UUID          `json:"project_id"`
	User      models.UserSummary `json:"user"`
}

type BoardDeletedData struct {
	BoardID   uuid.UUID `json:"board_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

type CommentEventData struct {
	Comment   models.TaskComment `json:"comment"`
	TaskID    uuid.UUID          `json:"task_id"`
	ProjectID uuid.UUID          `json:"project_id"`
	User      models.UserSummary `json:"user"`
}

type CommentDeletedData struct {
	CommentID uuid.UUID `json:"comment_id"`
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

type PresenceData struct {
	User      models.UserSummary `json:"user"`
	ProjectID uuid.UUID          `json:"project_id"`
	Timestamp time.Time          `json:"timestamp"`
}

type TypingData struct {
	User      models.UserSummary `json:"user"`
	TaskID    uuid.UUID          `json:"task_id"`
	ProjectID uuid.UUID          `json:"project_id"`
	Timestamp time.Time          `json:"timestamp"`
}

/** -------------------- Constructors -------------------- */

func newEvent(t EventType, payload any) Event {
	if payload == nil {
		return Event{Type: t}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload structs contain only marshalable fields, so this is a bug.
		slog.Error("Failed to marshal event payload", "type", t, "error", err)
		return Event{Type: t}
	}
	return Event{Type: t, Data: data}
}

func NewAuthenticationSuccess(userID uuid.UUID) Event {
	return newEvent(EventAuthenticationSuccess, AuthSuccessData{UserID: userID})
}

func NewAuthenticationError(message string) Event {
	return newEvent(EventAuthenticationError, MessageData{Message: message})
}

func NewSubscriptionSuccess(projectID uuid.UUID) Event {
	return newEvent(EventSubscriptionSuccess, SubscriptionData{ProjectID: projectID})
}

func NewSubscriptionError(message string) Event {
	return newEvent(EventSubscriptionError, MessageData{Message: message})
}

func NewTaskCreated(task models.Task, user models.UserSummary) Event {
	return newEvent(EventTaskCreated, TaskEventData{Task: task, ProjectID: task.ProjectID, User: user})
}

func NewTaskUpdated(task models.Task, user models.UserSummary) Event {
	return newEvent(EventTaskUpdated, TaskEventData{Task: task, ProjectID: task.ProjectID, User: user})
}

func NewTaskDeleted(taskID, projectID uuid.UUID) Event {
	return newEvent(EventTaskDeleted, TaskDeletedData{TaskID: taskID, ProjectID: projectID})
}

func NewTaskMoved(taskID uuid.UUID, from, to models.TaskStatus, position int, projectID uuid.UUID, user models.UserSummary) Event {
	return newEvent(EventTaskMoved, TaskMovedData{
		TaskID:     taskID,
		FromStatus: from,
		ToStatus:   to,
		Position:   position,
		ProjectID:  projectID,
		User:       user,
	})
}

func NewBoardCreated(board models.Board, user models.UserSummary) Event {
	return newEvent(EventBoardCreated, BoardEventData{Board: board, ProjectID: board.ProjectID, User: user})
}

func NewBoardUpdated(board models.Board, user models.UserSummary) Event {
	return newEvent(EventBoardUpdated, BoardEventData{Board: board, ProjectID: board.ProjectID, User: user})
}

func NewBoardDeleted(boardID, projectID uuid.UUID) Event {
	return newEvent(EventBoardDeleted, BoardDeletedData{BoardID: boardID, ProjectID: projectID})
}

func NewCommentCreated(comment models.TaskComment, projectID uuid.UUID, user models.UserSummary) Event {
	return newEvent(EventCommentCreated, CommentEventData{
		Comment:   comment,
		TaskID:    comment.TaskID,
		ProjectID: projectID,
		User:      user,
	})
}

func NewCommentDeleted(commentID, taskID, projectID uuid.UUID) Event {
	return newEvent(EventCommentDeleted, CommentDeletedData{CommentID: commentID, TaskID: taskID, ProjectID: projectID})
}

func NewUserJoined(user models.UserSummary, projectID uuid.UUID) Event {
	return newEvent(EventUserJoined, PresenceData{User: user, ProjectID: projectID, Timestamp: time.Now().UTC()})
}

func NewUserLeft(user models.UserSummary, projectID uuid.UUID) Event {
	return newEvent(EventUserLeft, PresenceData{User: user, ProjectID: projectID, Timestamp: time.Now().UTC()})
}

func NewError(message string) Event {
	return newEvent(EventError, MessageData{Message: message})
}

func NewPong() Event {
	return newEvent(EventPong, nil)
}

package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-service/internal/models"
)

func TestDecodeClientEvent(t *testing.T) {
	t.Run("accepts subscribe with payload", func(t *testing.T) {
		projectID := uuid.New()
		frame := []byte(`{"type":"Subscribe","data":{"project_id":"` + projectID.String() + `"}}`)

		ev, err := DecodeClientEvent(frame)
		require.NoError(t, err)
		assert.Equal(t, EventSubscribe, ev.Type)

		var data SubscriptionData
		require.NoError(t, json.Unmarshal(ev.Data, &data))
		assert.Equal(t, projectID, data.ProjectID)
	})

	t.Run("accepts pong without payload", func(t *testing.T) {
		ev, err := DecodeClientEvent([]byte(`{"type":"Pong"}`))
		require.NoError(t, err)
		assert.Equal(t, EventPong, ev.Type)
		assert.Nil(t, ev.Data)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := DecodeClientEvent([]byte(`{"type":`))
		assert.Error(t, err)
	})

	t.Run("rejects unknown tag", func(t *testing.T) {
		_, err := DecodeClientEvent([]byte(`{"type":"SelfDestruct"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("rejects server-only tag", func(t *testing.T) {
		_, err := DecodeClientEvent([]byte(`{"type":"TaskCreated","data":{}}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrServerOnlyEvent)
	})
}

func TestEventTypeClassification(t *testing.T) {
	clientTags := []EventType{EventSubscribe, EventUnsubscribe, EventUserTyping, EventUserStoppedTyping, EventPong}
	for _, tag := range clientTags {
		assert.True(t, tag.IsValid(), "tag %s should be valid", tag)
		assert.True(t, tag.IsClientEvent(), "tag %s should be a client tag", tag)
	}

	serverTags := []EventType{
		EventAuthenticationSuccess, EventAuthenticationError,
		EventSubscriptionSuccess, EventSubscriptionError,
		EventTaskCreated, EventTaskUpdated, EventTaskDeleted, EventTaskMoved,
		EventBoardCreated, EventBoardUpdated, EventBoardDeleted,
		EventCommentCreated, EventCommentDeleted,
		EventUserJoined, EventUserLeft,
		EventError,
	}
	for _, tag := range serverTags {
		assert.True(t, tag.IsValid(), "tag %s should be valid", tag)
		assert.False(t, tag.IsClientEvent(), "tag %s should be server-only", tag)
	}

	assert.False(t, EventType("Nonsense").IsValid())
}

func TestEventWireFormat(t *testing.T) {
	t.Run("tagged envelope with snake_case payload", func(t *testing.T) {
		user := models.UserSummary{ID: uuid.New(), Username: "ana", DisplayName: "Ana"}
		projectID := uuid.New()

		frame, err := json.Marshal(NewUserJoined(user, projectID))
		require.NoError(t, err)

		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(frame, &decoded))
		assert.JSONEq(t, `"UserJoined"`, string(decoded["type"]))

		var data map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(decoded["data"], &data))
		assert.Contains(t, data, "user")
		assert.Contains(t, data, "project_id")
		assert.Contains(t, data, "timestamp")
	})

	t.Run("pong omits data field", func(t *testing.T) {
		frame, err := json.Marshal(NewPong())
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"Pong"}`, string(frame))
	})

	t.Run("error carries message", func(t *testing.T) {
		frame, err := json.Marshal(NewError("invalid message format"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"Error","data":{"message":"invalid message format"}}`, string(frame))
	})
}

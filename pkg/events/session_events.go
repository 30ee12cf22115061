package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCreated         = "SESSION_CREATED"
	SessionRenamed         = "SESSION_RENAMED"
	SessionDeleted         = "SESSION_DELETED"
	SessionMessageAppended = "SESSION_MESSAGE_APPENDED"
	SessionCodeReplaced    = "SESSION_CODE_REPLACED"
	SessionTurnCommitted   = "SESSION_TURN_COMMITTED"
)

const (
	keyUserId    = "user_id"
	keySessionId = "session_id"
)

// NewSessionEvent stamps the owner and session ids into the payload so every consumer
// can route without knowing the event type.
func NewSessionEvent(eventType string, userId, sessionId uuid.UUID, data map[string]interface{}) BaseEvent {
	payload := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload[keyUserId] = userId.String()
	payload[keySessionId] = sessionId.String()

	return BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now().UTC(),
	}
}

// UserIdOf returns the owner stamped by NewSessionEvent.
func UserIdOf(e Event) (uuid.UUID, bool) {
	raw, ok := e.Payload()[keyUserId].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Envelope is the wire form shared by the in-process bus, NATS and websocket clients.
type Envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func Marshal(e Event) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:       e.EventType(),
		Payload:    e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return BaseEvent{
		Type:       env.Type,
		Data:       env.Payload,
		OccurredAt: env.OccurredAt,
	}, nil
}

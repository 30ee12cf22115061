package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

func (r ChatMessageRole) Valid() bool {
	return r == ChatMessageRoleUser || r == ChatMessageRoleAssistant
}

// ChatMessage is immutable once appended to a session.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          ChatMessageRole
	Content       string
	CreatedAt     time.Time
}

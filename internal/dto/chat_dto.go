package dto

import "github.com/google/uuid"

type SendChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"sessionId" validate:"required,uuid"`
}

// SendChatCommand is the validated form handed to the chat service.
type SendChatCommand struct {
	UserId    uuid.UUID
	SessionId uuid.UUID
	Message   string
}

type GeneratedCode struct {
	Markup     string `json:"markup"`
	Stylesheet string `json:"stylesheet"`
}

type SendChatResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"` // raw assistant text
	Code    GeneratedCode `json:"code"`
}

type ModelResponse struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}

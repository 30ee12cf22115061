package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Name string `json:"name" validate:"required"`
}

type RenameSessionRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required"`
}

type AppendMessageRequest struct {
	SessionId uuid.UUID `json:"-"`
	Role      string    `json:"role" validate:"required,oneof=user assistant"`
	Content   string    `json:"content" validate:"required"`
}

type ReplaceCodeRequest struct {
	SessionId  uuid.UUID `json:"-"`
	Markup     string    `json:"markup"`
	Stylesheet string    `json:"stylesheet"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CodeArtifactResponse struct {
	Markup      string    `json:"markup"`
	Stylesheet  string    `json:"stylesheet"`
	GeneratedAt time.Time `json:"generated_at"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	MessageCount int64                 `json:"message_count"`
	Code         *CodeArtifactResponse `json:"code"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type SessionDetailResponse struct {
	Id        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	IsActive  bool                   `json:"is_active"`
	Messages  []*ChatMessageResponse `json:"messages"`
	Code      *CodeArtifactResponse  `json:"code"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type SessionExport struct {
	FileName string
	Content  []byte
}

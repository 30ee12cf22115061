package mapper

import (
	"time"

	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		IsActive:  !s.DeletedAt.Valid,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          entity.ChatMessageRole(msg.Role),
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          string(msg.Role),
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}

// Artifact Mappers

func (m *ChatMapper) CodeArtifactToEntity(a *model.CodeArtifact) *entity.CodeArtifact {
	if a == nil {
		return nil
	}
	return &entity.CodeArtifact{
		Id:            a.Id,
		ChatSessionId: a.ChatSessionId,
		Markup:        a.Markup,
		Stylesheet:    a.Stylesheet,
		GeneratedAt:   a.GeneratedAt,
	}
}

func (m *ChatMapper) CodeArtifactToModel(a *entity.CodeArtifact) *model.CodeArtifact {
	if a == nil {
		return nil
	}
	return &model.CodeArtifact{
		Id:            a.Id,
		ChatSessionId: a.ChatSessionId,
		Markup:        a.Markup,
		Stylesheet:    a.Stylesheet,
		GeneratedAt:   a.GeneratedAt,
	}
}

package contract

import (
	"context"

	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository is append-only: messages are never edited after Create.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountBySessionIds(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]int64, error)
}

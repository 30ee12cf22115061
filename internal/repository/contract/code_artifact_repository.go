package contract

import (
	"context"

	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/repository/specification"
)

type CodeArtifactRepository interface {
	// Replace upserts the single artifact row of artifact.ChatSessionId.
	Replace(ctx context.Context, artifact *entity.CodeArtifact) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CodeArtifact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CodeArtifact, error)
}

package implementation

import (
	"context"
	"errors"
	"time"

	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/mapper"
	"accio-playground-be/internal/model"
	"accio-playground-be/internal/repository/contract"
	"accio-playground-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CodeArtifactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewCodeArtifactRepository(db *gorm.DB) contract.CodeArtifactRepository {
	return &CodeArtifactRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *CodeArtifactRepositoryImpl) Replace(ctx context.Context, artifact *entity.CodeArtifact) error {
	if artifact.Id == uuid.Nil {
		artifact.Id = uuid.New()
	}
	if artifact.GeneratedAt.IsZero() {
		artifact.GeneratedAt = time.Now().UTC()
	}

	m := r.mapper.CodeArtifactToModel(artifact)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"markup", "stylesheet", "generated_at", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// On conflict the existing row keeps its id.
	stored, err := r.FindOne(ctx, specification.ByChatSessionID{ChatSessionID: artifact.ChatSessionId})
	if err != nil {
		return err
	}
	if stored != nil {
		*artifact = *stored
	}
	return nil
}

func (r *CodeArtifactRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CodeArtifact, error) {
	var m model.CodeArtifact
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CodeArtifactToEntity(&m), nil
}

func (r *CodeArtifactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CodeArtifact, error) {
	var models []*model.CodeArtifact
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CodeArtifact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CodeArtifactToEntity(m)
	}
	return entities, nil
}

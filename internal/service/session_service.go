package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/internal/repository/specification"
	"accio-playground-be/internal/repository/unitofwork"
	"accio-playground-be/pkg/events"
	"accio-playground-be/pkg/export"

	"github.com/google/uuid"
)

const MaxSessionNameLength = 100

type ISessionService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionDetailResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionDetailResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	AppendMessage(ctx context.Context, userId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error)
	ReplaceCode(ctx context.Context, userId uuid.UUID, req *dto.ReplaceCodeRequest) (*dto.CodeArtifactResponse, error)
	Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionExport, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func normalizeSessionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > MaxSessionNameLength {
		return "", NewValidationError("name must be at most %d characters", MaxSessionNameLength)
	}
	return name, nil
}

func (c *sessionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	if len(sessions) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.Id
	}

	counts, err := uow.ChatMessageRepository().CountBySessionIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	artifacts, err := uow.CodeArtifactRepository().FindAll(ctx, specification.ByChatSessionIDs{ChatSessionIDs: ids})
	if err != nil {
		return nil, err
	}
	artifactBySession := make(map[uuid.UUID]*entity.CodeArtifact, len(artifacts))
	for _, a := range artifacts {
		artifactBySession[a.ChatSessionId] = a
	}

	for _, s := range sessions {
		result = append(result, &dto.SessionSummaryResponse{
			Id:           s.Id,
			Name:         s.Name,
			MessageCount: counts[s.Id],
			Code:         toArtifactResponse(artifactBySession[s.Id]),
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return result, nil
}

func (c *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionDetailResponse, error) {
	name, err := normalizeSessionName(req.Name)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	now := time.Now().UTC()
	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	publishEvent(ctx, c.publisherService, c.logger, events.NewSessionEvent(
		events.SessionCreated, userId, session.Id, map[string]interface{}{"name": session.Name},
	))

	return toSessionDetail(&session, nil, nil), nil
}

func (c *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := findActiveSession(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	artifact, err := uow.CodeArtifactRepository().FindOne(ctx, specification.ByChatSessionID{ChatSessionID: id})
	if err != nil {
		return nil, err
	}

	return toSessionDetail(session, messages, artifact), nil
}

func (c *sessionService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionDetailResponse, error) {
	name, err := normalizeSessionName(req.Name)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := findActiveSession(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	session.Name = name
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, c.publisherService, c.logger, events.NewSessionEvent(
		events.SessionRenamed, userId, session.Id, map[string]interface{}{"name": session.Name},
	))

	return toSessionDetail(session, nil, nil), nil
}

func (c *sessionService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := findActiveSession(ctx, uow, userId, id); err != nil {
		return err
	}

	if err := uow.ChatSessionRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.logger.Info("SESSION", "Session deleted", map[string]interface{}{
		"session_id": id.String(),
		"user_id":    userId.String(),
	})
	publishEvent(ctx, c.publisherService, c.logger, events.NewSessionEvent(events.SessionDeleted, userId, id, nil))
	return nil
}

func (c *sessionService) AppendMessage(ctx context.Context, userId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error) {
	role := entity.ChatMessageRole(req.Role)
	if !role.Valid() {
		return nil, NewValidationError("role must be one of [user assistant]")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, NewValidationError("content is required")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findActiveSession(ctx, uow, userId, req.SessionId); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: req.SessionId,
		Role:          role,
		Content:       content,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, req.SessionId, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, c.publisherService, c.logger, events.NewSessionEvent(
		events.SessionMessageAppended, userId, req.SessionId, map[string]interface{}{
			"message_id": message.Id.String(),
			"role":       string(message.Role),
		},
	))

	return toMessageResponse(&message), nil
}

func (c *sessionService) ReplaceCode(ctx context.Context, userId uuid.UUID, req *dto.ReplaceCodeRequest) (*dto.CodeArtifactResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findActiveSession(ctx, uow, userId, req.SessionId); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	artifact := entity.CodeArtifact{
		ChatSessionId: req.SessionId,
		Markup:        req.Markup,
		Stylesheet:    req.Stylesheet,
		GeneratedAt:   now,
	}
	if err := uow.CodeArtifactRepository().Replace(ctx, &artifact); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, req.SessionId, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, c.publisherService, c.logger, events.NewSessionEvent(
		events.SessionCodeReplaced, userId, req.SessionId, map[string]interface{}{
			"markup":     artifact.Markup,
			"stylesheet": artifact.Stylesheet,
		},
	))

	return toArtifactResponse(&artifact), nil
}

func (c *sessionService) Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionExport, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := findActiveSession(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	artifact, err := uow.CodeArtifactRepository().FindOne(ctx, specification.ByChatSessionID{ChatSessionID: id})
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	err = export.WriteZip(&buf, export.Bundle{
		Name:       session.Name,
		Markup:     artifact.Markup,
		Stylesheet: artifact.Stylesheet,
	})
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			return nil, ErrNothingToExport
		}
		return nil, err
	}

	return &dto.SessionExport{
		FileName: export.FileName(session.Name),
		Content:  buf.Bytes(),
	}, nil
}

func toSessionDetail(s *entity.ChatSession, messages []*entity.ChatMessage, artifact *entity.CodeArtifact) *dto.SessionDetailResponse {
	res := &dto.SessionDetailResponse{
		Id:        s.Id,
		Name:      s.Name,
		IsActive:  s.IsActive,
		Messages:  make([]*dto.ChatMessageResponse, 0, len(messages)),
		Code:      toArtifactResponse(artifact),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, toMessageResponse(m))
	}
	return res
}

func toMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toArtifactResponse(a *entity.CodeArtifact) *dto.CodeArtifactResponse {
	if a == nil {
		return nil
	}
	return &dto.CodeArtifactResponse{
		Markup:      a.Markup,
		Stylesheet:  a.Stylesheet,
		GeneratedAt: a.GeneratedAt,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/internal/repository/specification"
	"accio-playground-be/internal/repository/unitofwork"
	"accio-playground-be/pkg/codegen"
	"accio-playground-be/pkg/events"
	"accio-playground-be/pkg/turnlock"

	"github.com/google/uuid"
)

const (
	MaxChatMessageLength = 2000
	chatLogModule        = "CHAT"
)

// TextGenerator is satisfied by *codegen.Generator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IChatService interface {
	SendChat(ctx context.Context, cmd dto.SendChatCommand) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	generator        TextGenerator
	locker           turnlock.Locker
	publisherService IPublisherService
	logger           logger.ILogger
	now              func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	generator TextGenerator,
	locker turnlock.Locker,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	if locker == nil {
		locker = turnlock.NoopLocker{}
	}
	return &chatService{
		uowFactory:       uowFactory,
		generator:        generator,
		locker:           locker,
		publisherService: publisherService,
		logger:           log,
		now:              time.Now,
	}
}

// SendChat runs one turn: validate the session, compose the prompt from its current
// artifact, generate, extract, then commit both messages and the new artifact together.
func (s *chatService) SendChat(ctx context.Context, cmd dto.SendChatCommand) (*dto.SendChatResponse, error) {
	message := strings.TrimSpace(cmd.Message)
	if message == "" {
		return nil, NewValidationError("message is required")
	}
	if utf8.RuneCountInString(message) > MaxChatMessageLength {
		return nil, NewValidationError("message must be at most %d characters", MaxChatMessageLength)
	}

	logFields := map[string]interface{}{
		"session_id": cmd.SessionId.String(),
		"user_id":    cmd.UserId.String(),
	}
	s.logger.Debug(chatLogModule, "Turn received", logFields)

	release, err := s.locker.Acquire(ctx, cmd.SessionId.String())
	if err != nil {
		if errors.Is(err, turnlock.ErrLockTimeout) {
			return nil, ErrTurnInProgress
		}
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findActiveSession(ctx, uow, cmd.UserId, cmd.SessionId)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Info(chatLogModule, "Turn rejected: session not found", logFields)
		}
		return nil, err
	}

	current, err := uow.CodeArtifactRepository().FindOne(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
	if err != nil {
		return nil, err
	}
	snapshot := toCodegenArtifact(current)

	prompt := codegen.Compose(snapshot, message)
	s.logger.Debug(chatLogModule, "Prompt composed", map[string]interface{}{
		"session_id": session.Id.String(),
		"template":   string(codegen.SelectTemplate(snapshot)),
	})

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn(chatLogModule, "Turn failed: generation unavailable", logFields)
		return nil, ErrGenerationUnavailable
	}

	// The caller went away while the model was answering; nothing is committed.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifact := codegen.Extract(raw)
	if err := s.commitTurn(ctx, uow, cmd.UserId, session.Id, message, raw, artifact); err != nil {
		return nil, err
	}

	s.logger.Info(chatLogModule, "Turn committed", map[string]interface{}{
		"session_id":        session.Id.String(),
		"markup_length":     len(artifact.Markup),
		"stylesheet_length": len(artifact.Stylesheet),
		"extraction_miss":   artifact.IsEmpty(),
	})

	publishEvent(ctx, s.publisherService, s.logger, events.NewSessionEvent(
		events.SessionTurnCommitted, cmd.UserId, session.Id, map[string]interface{}{
			"markup":     artifact.Markup,
			"stylesheet": artifact.Stylesheet,
		},
	))

	return &dto.SendChatResponse{
		Success: true,
		Message: raw,
		Code: dto.GeneratedCode{
			Markup:     artifact.Markup,
			Stylesheet: artifact.Stylesheet,
		},
	}, nil
}

// commitTurn appends the user and assistant messages and replaces the artifact in one
// transaction. The session is re-checked inside it since it may have been deleted while
// the model was answering.
func (s *chatService) commitTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId, sessionId uuid.UUID,
	message, raw string,
	artifact codegen.Artifact,
) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := findActiveSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	now := s.now().UTC()
	// Assistant reply sorts right after the user message of the same turn.
	replyAt := now.Add(time.Microsecond)

	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          entity.ChatMessageRoleUser,
		Content:       message,
		CreatedAt:     now,
	}); err != nil {
		return err
	}

	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          entity.ChatMessageRoleAssistant,
		Content:       raw,
		CreatedAt:     replyAt,
	}); err != nil {
		return err
	}

	if err := uow.CodeArtifactRepository().Replace(ctx, &entity.CodeArtifact{
		ChatSessionId: sessionId,
		Markup:        artifact.Markup,
		Stylesheet:    artifact.Stylesheet,
		GeneratedAt:   now,
	}); err != nil {
		return err
	}

	if err := uow.ChatSessionRepository().Touch(ctx, sessionId, replyAt); err != nil {
		return err
	}

	return uow.Commit()
}

func findActiveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func toCodegenArtifact(a *entity.CodeArtifact) *codegen.Artifact {
	if a == nil {
		return nil
	}
	return &codegen.Artifact{
		Markup:      a.Markup,
		Stylesheet:  a.Stylesheet,
		GeneratedAt: a.GeneratedAt,
	}
}

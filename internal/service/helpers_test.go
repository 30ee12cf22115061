package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"accio-playground-be/internal/entity"
	"accio-playground-be/internal/model"
	"accio-playground-be/internal/repository/specification"
	"accio-playground-be/internal/repository/unitofwork"
	"accio-playground-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}, &model.CodeArtifact{}))
	return unitofwork.NewRepositoryFactory(db)
}

func seedSession(t *testing.T, factory unitofwork.RepositoryFactory, owner uuid.UUID, name string) *entity.ChatSession {
	t.Helper()
	s := &entity.ChatSession{UserId: owner, Name: name, IsActive: true}
	require.NoError(t, factory.NewUnitOfWork(context.Background()).ChatSessionRepository().Create(context.Background(), s))
	return s
}

func seedArtifact(t *testing.T, factory unitofwork.RepositoryFactory, sessionId uuid.UUID, markup, stylesheet string) {
	t.Helper()
	err := factory.NewUnitOfWork(context.Background()).CodeArtifactRepository().Replace(context.Background(), &entity.CodeArtifact{
		ChatSessionId: sessionId,
		Markup:        markup,
		Stylesheet:    stylesheet,
	})
	require.NoError(t, err)
}

func loadMessages(t *testing.T, factory unitofwork.RepositoryFactory, sessionId uuid.UUID) []*entity.ChatMessage {
	t.Helper()
	msgs, err := factory.NewUnitOfWork(context.Background()).ChatMessageRepository().FindAll(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(t, err)
	return msgs
}

func loadArtifact(t *testing.T, factory unitofwork.RepositoryFactory, sessionId uuid.UUID) *entity.CodeArtifact {
	t.Helper()
	a, err := factory.NewUnitOfWork(context.Background()).CodeArtifactRepository().FindOne(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId},
	)
	require.NoError(t, err)
	return a
}

type fakeGenerator struct {
	mu         sync.Mutex
	reply      string
	err        error
	prompts    []string
	onGenerate func(ctx context.Context)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	hook := g.onGenerate
	g.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) types(t *testing.T) []string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.payloads))
	for _, raw := range p.payloads {
		evt, err := events.Unmarshal(raw)
		require.NoError(t, err)
		out = append(out, evt.EventType())
	}
	return out
}

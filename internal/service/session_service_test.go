package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected a ServiceError, got %v", err)
	return svcErr.StatusCode()
}

func TestSessionService_CreateAndShow(t *testing.T) {
	factory := newTestFactory(t)
	pub := &recordingPublisher{}
	svc := NewSessionService(factory, pub, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, &dto.CreateSessionRequest{Name: "  Landing page  "})
	require.NoError(t, err)
	assert.Equal(t, "Landing page", created.Name)
	assert.True(t, created.IsActive)
	assert.Empty(t, created.Messages)
	assert.Nil(t, created.Code)

	shown, err := svc.Show(ctx, owner, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, shown.Id)
	assert.Equal(t, "Landing page", shown.Name)

	_, err = svc.Show(ctx, uuid.New(), created.Id)
	require.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []string{events.SessionCreated}, pub.types(t))
}

func TestSessionService_CreateValidatesName(t *testing.T) {
	svc := NewSessionService(newTestFactory(t), nil, logger.NewNopLogger())

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "blank", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("x", MaxSessionNameLength+1), wantErr: true},
		{name: "at limit", input: strings.Repeat("ü", MaxSessionNameLength), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{Name: tt.input})
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSessionService_GetAllOrdersByActivity(t *testing.T) {
	factory := newTestFactory(t)
	svc := NewSessionService(factory, nil, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()

	older, err := svc.Create(ctx, owner, &dto.CreateSessionRequest{Name: "Older"})
	require.NoError(t, err)
	newer, err := svc.Create(ctx, owner, &dto.CreateSessionRequest{Name: "Newer"})
	require.NoError(t, err)
	removed, err := svc.Create(ctx, owner, &dto.CreateSessionRequest{Name: "Removed"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), &dto.CreateSessionRequest{Name: "Someone else"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, removed.Id))

	// Activity on the older session moves it to the top.
	_, err = svc.AppendMessage(ctx, owner, &dto.AppendMessageRequest{SessionId: older.Id, Role: "user", Content: "hello"})
	require.NoError(t, err)
	_, err = svc.ReplaceCode(ctx, owner, &dto.ReplaceCodeRequest{SessionId: older.Id, Markup: "<p/>"})
	require.NoError(t, err)

	list, err := svc.GetAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, older.Id, list[0].Id)
	assert.Equal(t, int64(1), list[0].MessageCount)
	require.NotNil(t, list[0].Code)
	assert.Equal(t, "<p/>", list[0].Code.Markup)

	assert.Equal(t, newer.Id, list[1].Id)
	assert.Equal(t, int64(0), list[1].MessageCount)
	assert.Nil(t, list[1].Code)
}

func TestSessionService_GetAllEmpty(t *testing.T) {
	svc := NewSessionService(newTestFactory(t), nil, logger.NewNopLogger())

	list, err := svc.GetAll(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSessionService_Rename(t *testing.T) {
	factory := newTestFactory(t)
	pub := &recordingPublisher{}
	svc := NewSessionService(factory, pub, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()
	session := seedSession(t, factory, owner, "Draft")

	renamed, err := svc.Rename(ctx, owner, &dto.RenameSessionRequest{Id: session.Id, Name: " Final "})
	require.NoError(t, err)
	assert.Equal(t, "Final", renamed.Name)

	shown, err := svc.Show(ctx, owner, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "Final", shown.Name)

	_, err = svc.Rename(ctx, uuid.New(), &dto.RenameSessionRequest{Id: session.Id, Name: "Hijack"})
	require.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []string{events.SessionRenamed}, pub.types(t))
}

func TestSessionService_Delete(t *testing.T) {
	factory := newTestFactory(t)
	pub := &recordingPublisher{}
	svc := NewSessionService(factory, pub, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()
	session := seedSession(t, factory, owner, "Temp")

	require.ErrorIs(t, svc.Delete(ctx, uuid.New(), session.Id), ErrSessionNotFound)
	require.NoError(t, svc.Delete(ctx, owner, session.Id))
	require.ErrorIs(t, svc.Delete(ctx, owner, session.Id), ErrSessionNotFound)

	_, err := svc.Show(ctx, owner, session.Id)
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.AppendMessage(ctx, owner, &dto.AppendMessageRequest{SessionId: session.Id, Role: "user", Content: "late"})
	require.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []string{events.SessionDeleted}, pub.types(t))
}

func TestSessionService_AppendMessage(t *testing.T) {
	factory := newTestFactory(t)
	pub := &recordingPublisher{}
	svc := NewSessionService(factory, pub, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()
	session := seedSession(t, factory, owner, "Manual")

	first, err := svc.AppendMessage(ctx, owner, &dto.AppendMessageRequest{SessionId: session.Id, Role: "user", Content: "  question  "})
	require.NoError(t, err)
	assert.Equal(t, "question", first.Content)
	assert.Equal(t, "user", first.Role)

	_, err = svc.AppendMessage(ctx, owner, &dto.AppendMessageRequest{SessionId: session.Id, Role: "assistant", Content: "answer"})
	require.NoError(t, err)

	shown, err := svc.Show(ctx, owner, session.Id)
	require.NoError(t, err)
	require.Len(t, shown.Messages, 2)
	assert.Equal(t, "question", shown.Messages[0].Content)
	assert.Equal(t, "answer", shown.Messages[1].Content)

	tests := []struct {
		name string
		req  dto.AppendMessageRequest
	}{
		{name: "bad role", req: dto.AppendMessageRequest{SessionId: session.Id, Role: "system", Content: "x"}},
		{name: "blank content", req: dto.AppendMessageRequest{SessionId: session.Id, Role: "user", Content: " \n "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AppendMessage(ctx, owner, &tt.req)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}

	assert.Equal(t, []string{events.SessionMessageAppended, events.SessionMessageAppended}, pub.types(t))
}

func TestSessionService_ReplaceCodeIsWholesale(t *testing.T) {
	factory := newTestFactory(t)
	pub := &recordingPublisher{}
	svc := NewSessionService(factory, pub, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()
	session := seedSession(t, factory, owner, "Code")

	_, err := svc.ReplaceCode(ctx, owner, &dto.ReplaceCodeRequest{SessionId: session.Id, Markup: "<a/>", Stylesheet: "a{}"})
	require.NoError(t, err)
	res, err := svc.ReplaceCode(ctx, owner, &dto.ReplaceCodeRequest{SessionId: session.Id, Markup: "<b/>"})
	require.NoError(t, err)
	assert.Equal(t, "<b/>", res.Markup)
	assert.Equal(t, "", res.Stylesheet)

	artifact := loadArtifact(t, factory, session.Id)
	require.NotNil(t, artifact)
	assert.Equal(t, "<b/>", artifact.Markup)
	assert.Equal(t, "", artifact.Stylesheet)

	_, err = svc.ReplaceCode(ctx, uuid.New(), &dto.ReplaceCodeRequest{SessionId: session.Id, Markup: "<c/>"})
	require.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []string{events.SessionCodeReplaced, events.SessionCodeReplaced}, pub.types(t))
}

func TestSessionService_Export(t *testing.T) {
	factory := newTestFactory(t)
	svc := NewSessionService(factory, nil, logger.NewNopLogger())
	owner := uuid.New()
	ctx := context.Background()
	session := seedSession(t, factory, owner, "My Fancy Button")

	_, err := svc.Export(ctx, owner, session.Id)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	seedArtifact(t, factory, session.Id, "", ".only-css{}")
	_, err = svc.Export(ctx, owner, session.Id)
	require.ErrorIs(t, err, ErrNothingToExport)

	seedArtifact(t, factory, session.Id, "<button/>", ".btn{}")
	out, err := svc.Export(ctx, owner, session.Id)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.FileName, ".zip"))

	zr, err := zip.NewReader(bytes.NewReader(out.Content), int64(len(out.Content)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"component.jsx", "styles.css", "package.json", "README.md"}, names)

	_, err = svc.Export(ctx, uuid.New(), session.Id)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

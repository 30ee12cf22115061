package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/internal/pkg/serverutils"
	"accio-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

func bearer(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func newTestApp(routers ...interface{ RegisterRoutes(fiber.Router) }) *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.FiberErrorHandler(log)})
	api := app.Group("/api")
	for _, r := range routers {
		r.RegisterRoutes(api)
	}
	return app
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

type stubChatService struct {
	got dto.SendChatCommand
	res *dto.SendChatResponse
	err error
}

func (s *stubChatService) SendChat(ctx context.Context, cmd dto.SendChatCommand) (*dto.SendChatResponse, error) {
	s.got = cmd
	return s.res, s.err
}

type stubModelService struct {
	res []*dto.ModelResponse
	err error
}

func (s *stubModelService) GetAll(ctx context.Context) ([]*dto.ModelResponse, error) {
	return s.res, s.err
}

func TestChatController_SendChat(t *testing.T) {
	userId, sessionId := uuid.New(), uuid.New()
	validBody := map[string]string{"message": "make a red button", "sessionId": sessionId.String()}

	tests := []struct {
		name       string
		auth       string
		body       interface{}
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			auth:       bearer(t, userId),
			body:       validBody,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"raw text","code":{"markup":"<b/>","stylesheet":""}}`,
		},
		{name: "missing token", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "missing message", auth: bearer(t, userId), body: map[string]string{"sessionId": sessionId.String()}, wantStatus: http.StatusBadRequest},
		{name: "malformed session id", auth: bearer(t, userId), body: map[string]string{"message": "hi", "sessionId": "nope"}, wantStatus: http.StatusBadRequest},
		{name: "session not found", auth: bearer(t, userId), body: validBody, svcErr: service.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "turn in progress", auth: bearer(t, userId), body: validBody, svcErr: service.ErrTurnInProgress, wantStatus: http.StatusConflict},
		{
			name:       "generation unavailable",
			auth:       bearer(t, userId),
			body:       validBody,
			svcErr:     service.ErrGenerationUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"success":false,"code":503,"message":"AI service is temporarily unavailable. Please try again later."}`,
		},
		{
			name:       "unexpected",
			auth:       bearer(t, userId),
			body:       validBody,
			svcErr:     io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"code":500,"message":"Server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChatService{
				res: &dto.SendChatResponse{Success: true, Message: "raw text", Code: dto.GeneratedCode{Markup: "<b/>"}},
				err: tt.svcErr,
			}
			app := newTestApp(NewChatController(chat, &stubModelService{}, testSecret))

			resp, body := do(t, app, http.MethodPost, "/api/chat", tt.auth, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, string(body))
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userId, chat.got.UserId)
				assert.Equal(t, sessionId, chat.got.SessionId)
				assert.Equal(t, "make a red button", chat.got.Message)
			}
		})
	}
}

func TestChatController_GetModels(t *testing.T) {
	models := &stubModelService{res: []*dto.ModelResponse{{Id: "openai/gpt-4o-mini", Name: "GPT-4o mini"}}}
	app := newTestApp(NewChatController(&stubChatService{}, models, testSecret))

	resp, body := do(t, app, http.MethodGet, "/api/chat/models", bearer(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed serverutils.BaseResponse[[]dto.ModelResponse]
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Len(t, parsed.Data, 1)
	assert.Equal(t, "openai/gpt-4o-mini", parsed.Data[0].Id)

	models.err = service.ErrModelCatalogUnavailable
	resp, body = do(t, app, http.MethodGet, "/api/chat/models", bearer(t, uuid.New()), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "Failed to fetch AI models")
}

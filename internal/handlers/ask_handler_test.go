package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/models"
)

// mockAnswerService implements interfaces.AnswerService
type mockAnswerService struct {
	answer *models.Answer
	err    error
	calls  int
}

func (m *mockAnswerService) Answer(ctx context.Context, question string) (*models.Answer, error) {
	m.calls++
	if strings.TrimSpace(question) == "" {
		return nil, models.ErrInvalidInput
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAnswerService) HealthCheck(ctx context.Context) error { return nil }

func doAsk(t *testing.T, svc *mockAnswerService, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewAskHandler(svc, arbor.NewLogger())
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AskHandler(rec, req)
	return rec
}

func TestAskHandler_Success(t *testing.T) {
	svc := &mockAnswerService{answer: &models.Answer{
		Text: "El candidato A ganó la elección.",
		Sources: []models.SourceRef{
			{Title: "Resultados", URL: "https://e.com/resultados"},
		},
	}}

	rec := doAsk(t, svc, `{"question": "¿Quién ganó la elección?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Answer  string             `json:"answer"`
		Sources []models.SourceRef `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "El candidato A ganó la elección.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "https://e.com/resultados", resp.Sources[0].URL)
}

func TestAskHandler_FallbackIsOK(t *testing.T) {
	svc := &mockAnswerService{answer: &models.Answer{
		Text:    "I could not find relevant news about that topic in my database.",
		Sources: []models.SourceRef{},
	}}

	rec := doAsk(t, svc, `{"question": "¿Hay noticias de criptomonedas?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, `[]`, string(resp["sources"]), "fallback carries an empty source list, not null")
}

func TestAskHandler_BadJSON(t *testing.T) {
	svc := &mockAnswerService{}

	rec := doAsk(t, svc, `{"question": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, svc.calls, "malformed bodies never reach the service")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestAskHandler_EmptyQuestion(t *testing.T) {
	for _, body := range []string{`{}`, `{"question": ""}`, `{"question": "   "}`} {
		rec := doAsk(t, &mockAnswerService{}, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestAskHandler_UpstreamError(t *testing.T) {
	svc := &mockAnswerService{err: models.NewUpstreamError("answer generation", errors.New("model overloaded"))}

	rec := doAsk(t, svc, `{"question": "¿Qué pasó hoy?"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp["error"], "model overloaded", "upstream detail stays out of client responses")
}

func TestAskHandler_MethodNotAllowed(t *testing.T) {
	handler := NewAskHandler(&mockAnswerService{}, arbor.NewLogger())
	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	rec := httptest.NewRecorder()
	handler.AskHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

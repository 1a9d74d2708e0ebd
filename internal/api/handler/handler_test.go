package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/parenthaven/backend/internal/api/handler"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever returns a fixed candidate list
type stubRetriever struct {
	chunks []string
	err    error
}

func (s *stubRetriever) Search(context.Context, string, int) ([]string, error) {
	return s.chunks, s.err
}

// stubProvider echoes a fixed reply and records prompts
type stubProvider struct {
	reply   string
	prompts []string
}

func (s *stubProvider) Name() string              { return "stub" }
func (s *stubProvider) AvailableModels() []string { return []string{"stub-model"} }
func (s *stubProvider) DefaultModel() string      { return "stub-model" }
func (s *stubProvider) IsConfigured() bool        { return true }
func (s *stubProvider) Complete(_ context.Context, prompt, _ string) (*llm.Response, error) {
	s.prompts = append(s.prompts, prompt)
	return &llm.Response{Text: s.reply, Model: "stub-model"}, nil
}

// newTestRouter wires the chat surface over in-memory stores and stub backends
func newTestRouter(retriever *stubRetriever, provider *stubProvider) (http.Handler, *chat.MemorySessionStore) {
	sessions := chat.NewMemorySessionStore()
	suppressor := chat.NewPositionalSuppressor(NewTestFeedbackStore())
	pipeline := chat.NewPipeline(retriever, provider, provider.DefaultModel(), sessions, suppressor, nil, chat.Options{})

	chatHandler := handler.NewChatHandler(pipeline, sessions)
	feedbackHandler := handler.NewFeedbackHandler(suppressor)
	sessionHandler := handler.NewSessionHandler(sessions, nil)

	r := chi.NewRouter()
	r.Get("/api/v1/health", handler.HealthCheck)
	r.Post("/api/v1/chat", chatHandler.Ask)
	r.Post("/api/v1/feedback", feedbackHandler.Submit)
	r.Get("/api/v1/session/new", sessionHandler.New)
	r.Post("/api/v1/session/clear", sessionHandler.Clear)
	r.Get("/api/v1/session/{sessionID}/history", sessionHandler.History)

	return r, sessions
}

// NewTestFeedbackStore aliases the in-memory store for readability
func NewTestFeedbackStore() domain.FeedbackStore {
	return chat.NewMemoryFeedbackStore()
}

func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	data, _ := resp["data"].(map[string]any)
	return data
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "ok", data["status"])
}

func TestChatHandler_Ask(t *testing.T) {
	retriever := &stubRetriever{chunks: []string{"helpful passage"}}
	provider := &stubProvider{reply: "You could try a calm-down corner."}
	router, sessions := newTestRouter(retriever, provider)

	t.Run("assigns a session when none is given", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
			"query": "my son refuses school, what can I do?",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, "You could try a calm-down corner.", data["reply"])
		assert.NotEmpty(t, data["session_id"])
		assert.Equal(t, true, data["from_db"])

		// Both turns were recorded
		assert.Equal(t, 2, sessions.Len(data["session_id"].(string)))
	})

	t.Run("rejects a missing query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("retrieval failure maps to 500", func(t *testing.T) {
		failing := &stubRetriever{err: assert.AnError}
		router, _ := newTestRouter(failing, provider)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
			"query": "anything",
		}))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty retrieval returns the fallback without persisting", func(t *testing.T) {
		empty := &stubRetriever{chunks: nil}
		router, sessions := newTestRouter(empty, provider)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
			"session_id": "fixed",
			"query":      "anything",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, chat.ReplyNoContext, data["reply"])
		assert.Equal(t, false, data["from_db"])
		assert.Equal(t, 0, sessions.Len("fixed"))
	})
}

func TestFeedbackFlow(t *testing.T) {
	retriever := &stubRetriever{chunks: []string{"bad passage", "good passage"}}
	provider := &stubProvider{reply: "ok"}
	router, _ := newTestRouter(retriever, provider)

	ask := func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
			"session_id": "s1",
			"query":      "q",
		}))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	ask()
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "bad passage")

	// Penalize the first retrieved chunk
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/feedback", map[string]any{
		"session_id":    "s1",
		"message_index": 0,
		"rating":        -1,
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, true, data["recorded"])

	ask()
	require.Len(t, provider.prompts, 2)
	assert.NotContains(t, provider.prompts[1], "bad passage")
	assert.Contains(t, provider.prompts[1], "good passage")
}

func TestFeedbackHandler_Validation(t *testing.T) {
	router, _ := newTestRouter(&stubRetriever{}, &stubProvider{})

	t.Run("missing session_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/feedback", map[string]any{
			"message_index": 0,
			"rating":        -1,
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative message_index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/feedback", map[string]any{
			"session_id":    "s1",
			"message_index": -2,
			"rating":        -1,
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionHandler(t *testing.T) {
	retriever := &stubRetriever{chunks: []string{"passage"}}
	provider := &stubProvider{reply: "hello"}
	router, sessions := newTestRouter(retriever, provider)

	t.Run("new session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodGet, "/api/v1/session/new", nil))

		require.Equal(t, http.StatusCreated, rec.Code)
		data := decodeData(t, rec)
		sessionID := data["session_id"].(string)
		assert.NotEmpty(t, sessionID)

		// A brand-new session can be cleared right away
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/session/clear?session_id="+sessionID, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("clear unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/session/clear?session_id=never-seen", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("clear without session_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/session/clear", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("history returns recorded turns", func(t *testing.T) {
		sessions.Append("h1", domain.RoleUser, "question")
		sessions.Append("h1", domain.RoleAssistant, "answer")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/h1/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(2), data["count"])

		turns := data["turns"].([]any)
		first := turns[0].(map[string]any)
		assert.Equal(t, "user", first["role"])
		assert.Equal(t, "question", first["content"])
	})

	t.Run("history of unknown session is empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/none/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(0), data["count"])
	})
}

// stubTurnLog serves canned persisted turns
type stubTurnLog struct {
	turns map[string][]domain.Turn
}

func (s *stubTurnLog) ListBySession(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	turns := s.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func TestSessionHandler_HistoryFallsBackToTurnLog(t *testing.T) {
	sessions := chat.NewMemorySessionStore()
	turnLog := &stubTurnLog{turns: map[string][]domain.Turn{
		"restarted": {
			{Role: domain.RoleUser, Content: "old question"},
			{Role: domain.RoleAssistant, Content: "old answer"},
		},
	}}
	sessionHandler := handler.NewSessionHandler(sessions, turnLog)

	r := chi.NewRouter()
	r.Get("/api/v1/session/{sessionID}/history", sessionHandler.History)

	t.Run("unknown session recovers logged turns", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/restarted/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(2), data["count"])

		turns := data["turns"].([]any)
		first := turns[0].(map[string]any)
		assert.Equal(t, "user", first["role"])
		assert.Equal(t, "old question", first["content"])
	})

	t.Run("cleared session does not resurrect logged turns", func(t *testing.T) {
		sessions.Append("restarted", domain.RoleUser, "fresh")
		require.NoError(t, sessions.Clear("restarted"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/restarted/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(0), data["count"])
	})

	t.Run("session with no log stays empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/never-logged/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(0), data["count"])
	})
}

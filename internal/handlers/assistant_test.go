package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

const degradedChatReply = "AI assistant is currently unavailable. Please configure your OpenAI API key in the environment settings."

func chatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "messages", "created_at", "updated_at"})
}

func TestChat_FirstMessageCreatesConversationAndPersistsBothTurns(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM public\.chat_conversations\s+WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(chatRows())
	mock.ExpectQuery(`ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1").
		WillReturnRows(chatRows().AddRow("cv1", "u1", []byte(`[]`), now, now))

	persisted, err := json.Marshal([]models.ChatMessage{
		{Role: "user", Content: "help me plan"},
		{Role: "assistant", Content: degradedChatReply},
	})
	if err != nil {
		t.Fatalf("marshal expected history: %v", err)
	}
	mock.ExpectQuery(`UPDATE public\.chat_conversations\s+SET messages = \$2::jsonb`).
		WithArgs("cv1", string(persisted)).
		WillReturnRows(chatRows().AddRow("cv1", "u1", persisted, now, now))

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(t, http.MethodPost, "/api/chat", "u1", map[string]string{"message": "help me plan"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["response"] != degradedChatReply {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestChat_EmptyMessageIs400(t *testing.T) {
	h, _, closeDB := newTestHandler(t)
	defer closeDB()

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(t, http.MethodPost, "/api/chat", "u1", map[string]string{"message": "   "}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestChatHistory_NeverChattedIsEmptyList(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	mock.ExpectQuery(`FROM public\.chat_conversations`).
		WithArgs("u1").
		WillReturnRows(chatRows())

	rec := httptest.NewRecorder()
	h.ChatHistory(rec, authedRequest(t, http.MethodGet, "/api/chat/history", "u1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decodeBody(t, rec, &body)
	if body.Messages == nil || len(body.Messages) != 0 {
		t.Fatalf("expected empty message list got %s", rec.Body.String())
	}
}

func TestChatHistory_ReturnsStoredMessages(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM public\.chat_conversations`).
		WithArgs("u1").
		WillReturnRows(chatRows().AddRow("cv1", "u1", []byte(`[{"role":"user","content":"hi"}]`), now, now))

	rec := httptest.NewRecorder()
	h.ChatHistory(rec, authedRequest(t, http.MethodGet, "/api/chat/history", "u1", nil))

	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decodeBody(t, rec, &body)
	if len(body.Messages) != 1 || body.Messages[0].Content != "hi" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestContentSuggestions_DegradedFallback(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	// No user row and no analytics; the degraded AI client still answers.
	mock.ExpectQuery(`FROM public\.users`).
		WithArgs("u1").
		WillReturnRows(userRows())
	mock.ExpectQuery(`FROM public\.analytics`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "metric", "value", "date", "created_at"}))

	rec := httptest.NewRecorder()
	h.ContentSuggestions(rec, authedRequest(t, http.MethodGet, "/api/content-suggestions", "u1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body []map[string]any
	decodeBody(t, rec, &body)
	if len(body) != 1 || body[0]["platform"] != "Instagram" {
		t.Fatalf("unexpected suggestions %s", rec.Body.String())
	}
}

func TestInsights_DegradedFallback(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	mock.ExpectQuery(`FROM public\.analytics`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "metric", "value", "date", "created_at"}))

	rec := httptest.NewRecorder()
	h.Insights(rec, authedRequest(t, http.MethodPost, "/api/ai/insights", "u1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body []map[string]any
	decodeBody(t, rec, &body)
	if len(body) != 1 || body[0]["type"] != "alert" {
		t.Fatalf("unexpected insights %s", rec.Body.String())
	}
}

func TestAnalyzeContent_RequiresContent(t *testing.T) {
	h, _, closeDB := newTestHandler(t)
	defer closeDB()

	rec := httptest.NewRecorder()
	h.AnalyzeContent(rec, authedRequest(t, http.MethodPost, "/api/ai/analyze-content", "u1", map[string]any{
		"metrics": map[string]int{"likes": 3},
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeContent_DegradedFallback(t *testing.T) {
	h, _, closeDB := newTestHandler(t)
	defer closeDB()

	rec := httptest.NewRecorder()
	h.AnalyzeContent(rec, authedRequest(t, http.MethodPost, "/api/ai/analyze-content", "u1", map[string]any{
		"content": "New drop is live!",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Score int `json:"score"`
	}
	decodeBody(t, rec, &body)
	if body.Score != 75 {
		t.Fatalf("expected fallback score 75 got %s", rec.Body.String())
	}
}

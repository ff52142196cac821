package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/middleware"
	"github.com/tobitech/marketing-dashboard/internal/models"
	"github.com/tobitech/marketing-dashboard/internal/storage"
)

// Chat appends the user's message to their running conversation, asks the AI
// proxy for a reply, and persists both turns.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conversation, err := h.store.GetUserChatConversation(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		conversation, err = h.store.CreateChatConversation(r.Context(), userID)
	}
	if err != nil {
		log.Printf("[Chat] conversation error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	messages := append(conversation.Messages, models.ChatMessage{Role: "user", Content: req.Message})

	reply, err := h.ai.Chat(r.Context(), messages)
	if err != nil {
		log.Printf("[Chat] provider error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}
	messages = append(messages, models.ChatMessage{Role: "assistant", Content: reply})

	if _, err := h.store.UpdateChatMessages(r.Context(), conversation.ID, messages); err != nil {
		log.Printf("[Chat] persist error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// ChatHistory returns the stored message list, empty when the user has never
// chatted.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	conversation, err := h.store.GetUserChatConversation(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string][]models.ChatMessage{"messages": {}})
		return
	}
	if err != nil {
		log.Printf("[Chat][History] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.ChatMessage{"messages": conversation.Messages})
}

// ContentSuggestions derives platform content ideas from the user's profile
// and recent analytics.
func (h *Handler) ContentSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[Suggestions] user query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate content suggestions")
		return
	}
	records, err := h.store.ListAnalyticsByOwner(r.Context(), userID, storage.AnalyticsFilter{})
	if err != nil {
		log.Printf("[Suggestions] analytics query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate content suggestions")
		return
	}

	suggestions := h.ai.GenerateContentSuggestions(r.Context(), user, records)
	writeJSON(w, http.StatusOK, suggestions)
}

// Insights runs the insight generator over the user's stored analytics.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	records, err := h.store.ListAnalyticsByOwner(r.Context(), userID, storage.AnalyticsFilter{})
	if err != nil {
		log.Printf("[Insights] analytics query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	insights := h.ai.GenerateInsights(r.Context(), records)
	writeJSON(w, http.StatusOK, insights)
}

// AnalyzeContent scores a piece of content against caller-supplied metrics.
func (h *Handler) AnalyzeContent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Content string         `json:"content"`
		Metrics map[string]any `json:"metrics"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	analysis := h.ai.AnalyzeContentPerformance(r.Context(), req.Content, req.Metrics)
	log.Printf("[Analyze] userId=%s score=%d", userID, analysis.Score)
	writeJSON(w, http.StatusOK, analysis)
}

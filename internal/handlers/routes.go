package handlers

import (
	"github.com/gorilla/mux"

	"github.com/tobitech/marketing-dashboard/internal/middleware"
)

// RegisterRoutes binds every HTTP route and the chat WebSocket. billing may
// be nil, in which case the subscription route is not mounted at all.
func RegisterRoutes(r *mux.Router, h *Handler, auth *middleware.Authenticator, billing *BillingHandler) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/api/auth/user", auth.Require(h.GetAuthUser)).Methods("GET")
	r.HandleFunc("/api/dashboard", auth.Require(h.Dashboard)).Methods("GET")

	r.HandleFunc("/api/posts", auth.Require(h.CreatePost)).Methods("POST")
	r.HandleFunc("/api/posts", auth.Require(h.ListPosts)).Methods("GET")

	r.HandleFunc("/api/campaigns", auth.Require(h.CreateCampaign)).Methods("POST")
	r.HandleFunc("/api/campaigns", auth.Require(h.ListCampaigns)).Methods("GET")

	r.HandleFunc("/api/visualizations", auth.Require(h.CreateVisualization)).Methods("POST")
	r.HandleFunc("/api/visualizations", auth.Require(h.ListVisualizations)).Methods("GET")
	r.HandleFunc("/api/visualizations/{id}", auth.Require(h.DeleteVisualization)).Methods("DELETE")

	r.HandleFunc("/api/chat", auth.Require(h.Chat)).Methods("POST")
	r.HandleFunc("/api/chat/history", auth.Require(h.ChatHistory)).Methods("GET")
	r.HandleFunc("/api/content-suggestions", auth.Require(h.ContentSuggestions)).Methods("GET")

	r.HandleFunc("/api/reminders", auth.Require(h.CreateReminder)).Methods("POST")
	r.HandleFunc("/api/reminders", auth.Require(h.ListReminders)).Methods("GET")
	r.HandleFunc("/api/reminders/{id}/complete", auth.Require(h.CompleteReminder)).Methods("PATCH")

	// Unauthenticated: external form webhooks post directly here.
	r.HandleFunc("/api/form-submissions", h.CreateFormSubmission).Methods("POST")
	r.HandleFunc("/api/form-submissions", auth.Require(h.ListFormSubmissions)).Methods("GET")

	r.HandleFunc("/api/platforms", auth.Require(h.CreateConnectedPlatform)).Methods("POST")
	r.HandleFunc("/api/platforms", auth.Require(h.ListConnectedPlatforms)).Methods("GET")

	r.HandleFunc("/api/content-templates", auth.Require(h.CreateContentTemplate)).Methods("POST")
	r.HandleFunc("/api/content-templates", auth.Require(h.ListContentTemplates)).Methods("GET")
	r.HandleFunc("/api/content-templates/{id}", auth.Require(h.DeleteContentTemplate)).Methods("DELETE")

	r.HandleFunc("/api/ai/insights", auth.Require(h.Insights)).Methods("POST")
	r.HandleFunc("/api/ai/analyze-content", auth.Require(h.AnalyzeContent)).Methods("POST")

	if billing != nil {
		r.HandleFunc("/api/get-or-create-subscription", auth.Require(billing.GetOrCreateSubscription)).Methods("POST")
	}

	r.HandleFunc("/ws", h.ChatWebSocket)
}

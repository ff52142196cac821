package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tobitech/marketing-dashboard/internal/ai"
	"github.com/tobitech/marketing-dashboard/internal/middleware"
	"github.com/tobitech/marketing-dashboard/internal/models"
	"github.com/tobitech/marketing-dashboard/internal/storage"
)

// Handler is the route layer: stateless request/response mappings over the
// storage access layer and the AI proxy. Both collaborators are injected at
// construction; there are no ambient singletons.
type Handler struct {
	store *storage.Storage
	ai    *ai.Client
}

func New(store *storage.Storage, aiClient *ai.Client) *Handler {
	return &Handler{store: store, ai: aiClient}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetAuthUser returns the authenticated user's record, creating the row on
// first sight (login upsert).
func (h *Handler) GetAuthUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	user, err := h.store.GetUser(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = h.store.UpsertUser(r.Context(), storage.UpsertUser{ID: userID})
	}
	if err != nil {
		log.Printf("[Auth][User] fetch error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type dashboardStats struct {
	TotalViews  int `json:"totalViews"`
	Engagement  int `json:"engagement"`
	Conversions int `json:"conversions"`
	Revenue     int `json:"revenue"`
}

type dashboardResponse struct {
	Stats           dashboardStats         `json:"stats"`
	Insights        ai.Insight             `json:"insights"`
	RecentPosts     []models.Post          `json:"recentPosts"`
	RecentCampaigns []models.EmailCampaign `json:"recentCampaigns"`
}

// Dashboard aggregates the landing view: headline stats, one AI insight and
// the most recent posts and campaigns. Stats are demo figures until real
// platform metrics are ingested.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	now := time.Now().UTC()

	sample := []models.AnalyticsRecord{
		{Platform: "Instagram", Metric: "views", Value: 2400, Date: now},
		{Platform: "Instagram", Metric: "engagement", Value: 18, Date: now},
		{Platform: "Facebook", Metric: "conversions", Value: 156, Date: now},
		{Platform: "TikTok", Metric: "revenue", Value: 3200, Date: now},
	}
	insights := h.ai.GenerateInsights(r.Context(), sample)

	posts, err := h.store.ListPostsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Dashboard] posts query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}
	campaigns, err := h.store.ListCampaignsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Dashboard] campaigns query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	insight := ai.Insight{
		Type:        "suggestion",
		Title:       "Today's AI Insights",
		Description: "Your Instagram engagement is up 23% this week. Consider posting similar content at 2 PM for optimal reach.",
		Confidence:  0.85,
	}
	if len(insights) > 0 {
		insight = insights[0]
	}

	if len(posts) > 5 {
		posts = posts[:5]
	}
	if len(campaigns) > 3 {
		campaigns = campaigns[:3]
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Stats:           dashboardStats{TotalViews: 2400, Engagement: 18, Conversions: 156, Revenue: 3200},
		Insights:        insight,
		RecentPosts:     posts,
		RecentCampaigns: campaigns,
	})
}

package handlers

import (
	"log"
	"net/http"

	"github.com/tobitech/marketing-dashboard/internal/middleware"
	"github.com/tobitech/marketing-dashboard/internal/storage"
)

// CreatePost inserts a post for the authenticated user. The owner id always
// comes from the auth gate, never from the payload.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewPost
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	post, err := h.store.CreatePost(r.Context(), in)
	if err != nil {
		log.Printf("[Posts][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to create post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	posts, err := h.store.ListPostsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Posts][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewEmailCampaign
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	campaign, err := h.store.CreateEmailCampaign(r.Context(), in)
	if err != nil {
		log.Printf("[Campaigns][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to create campaign")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	campaigns, err := h.store.ListCampaignsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Campaigns][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaigns")
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) CreateVisualization(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewVisualization
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	viz, err := h.store.CreateVisualization(r.Context(), in)
	if err != nil {
		log.Printf("[Visualizations][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to create visualization")
		return
	}
	writeJSON(w, http.StatusOK, viz)
}

func (h *Handler) ListVisualizations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	vizzes, err := h.store.ListVisualizationsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Visualizations][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch visualizations")
		return
	}
	writeJSON(w, http.StatusOK, vizzes)
}

func (h *Handler) DeleteVisualization(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := pathVar(r, "id")

	if err := h.store.DeleteVisualization(r.Context(), userID, id); err != nil {
		log.Printf("[Visualizations][Delete] error userId=%s id=%s err=%v", userID, id, err)
		writeStorageError(w, err, "Failed to delete visualization")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) CreateContentTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewContentTemplate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	template, err := h.store.CreateContentTemplate(r.Context(), in)
	if err != nil {
		log.Printf("[Templates][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to create template")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *Handler) ListContentTemplates(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	filter := storage.TemplateFilter{Platform: r.URL.Query().Get("platform")}

	templates, err := h.store.ListContentTemplatesByOwner(r.Context(), userID, filter)
	if err != nil {
		log.Printf("[Templates][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) DeleteContentTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := pathVar(r, "id")

	if err := h.store.DeleteContentTemplate(r.Context(), userID, id); err != nil {
		log.Printf("[Templates][Delete] error userId=%s id=%s err=%v", userID, id, err)
		writeStorageError(w, err, "Failed to delete template")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

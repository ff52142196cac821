package handlers

import (
	"log"
	"net/http"

	"github.com/tobitech/marketing-dashboard/internal/middleware"
	"github.com/tobitech/marketing-dashboard/internal/storage"
)

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewTaskReminder
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	reminder, err := h.store.CreateTaskReminder(r.Context(), in)
	if err != nil {
		log.Printf("[Reminders][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to create reminder")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	reminders, err := h.store.ListRemindersByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Reminders][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch reminders")
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// CompleteReminder flips the completion flag. Unknown ids are a 404, not the
// silent empty result the old API produced.
func (h *Handler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := pathVar(r, "id")

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	reminder, err := h.store.UpdateTaskCompletion(r.Context(), id, req.Completed)
	if err != nil {
		log.Printf("[Reminders][Complete] error userId=%s id=%s err=%v", userID, id, err)
		writeStorageError(w, err, "Failed to update reminder")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// CreateFormSubmission ingests an external form webhook. This route is
// unauthenticated, so the owner id comes from the payload itself.
func (h *Handler) CreateFormSubmission(w http.ResponseWriter, r *http.Request) {
	var in storage.NewFormSubmission
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	submission, err := h.store.CreateFormSubmission(r.Context(), in)
	if err != nil {
		log.Printf("[Forms][Create] error userId=%s err=%v", in.UserID, err)
		writeStorageError(w, err, "Failed to create form submission")
		return
	}
	writeJSON(w, http.StatusOK, submission)
}

func (h *Handler) ListFormSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	filter := storage.FormSubmissionFilter{Status: r.URL.Query().Get("status")}

	submissions, err := h.store.ListFormSubmissionsByOwner(r.Context(), userID, filter)
	if err != nil {
		log.Printf("[Forms][List] query error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to fetch form submissions")
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *Handler) CreateConnectedPlatform(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in storage.NewConnectedPlatform
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.UserID = userID

	platform, err := h.store.CreateConnectedPlatform(r.Context(), in)
	if err != nil {
		log.Printf("[Platforms][Create] error userId=%s err=%v", userID, err)
		writeStorageError(w, err, "Failed to connect platform")
		return
	}
	writeJSON(w, http.StatusOK, platform)
}

func (h *Handler) ListConnectedPlatforms(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	platforms, err := h.store.ListConnectedPlatformsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[Platforms][List] query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch platforms")
		return
	}
	writeJSON(w, http.StatusOK, platforms)
}

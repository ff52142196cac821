package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
)

func TestCreatePost_OwnerComesFromAuthNotPayload(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	now := time.Now().UTC()
	// The payload claims another owner; the insert must carry the
	// authenticated id.
	mock.ExpectQuery(`INSERT INTO public\.posts`).
		WithArgs("real-owner", "hello", sqlmock.AnyArg(), nil, "draft").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "content", "platforms", "scheduled_for", "status", "created_at"}).
				AddRow("p1", "real-owner", "hello", "{Instagram}", nil, "draft", now),
		)

	rec := httptest.NewRecorder()
	h.CreatePost(rec, authedRequest(t, http.MethodPost, "/api/posts", "real-owner", map[string]any{
		"userId":    "someone-else",
		"content":   "hello",
		"platforms": []string{"Instagram"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["userId"] != "real-owner" {
		t.Fatalf("owner not overridden: %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestCreatePost_ValidationIs400(t *testing.T) {
	h, _, closeDB := newTestHandler(t)
	defer closeDB()

	rec := httptest.NewRecorder()
	h.CreatePost(rec, authedRequest(t, http.MethodPost, "/api/posts", "u1", map[string]any{
		"platforms": []string{"Instagram"},
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] == "" {
		t.Fatalf("expected message in body got %s", rec.Body.String())
	}
}

func TestCreatePost_MalformedJSONIs400(t *testing.T) {
	h, _, closeDB := newTestHandler(t)
	defer closeDB()

	r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	rec := httptest.NewRecorder()
	h.CreatePost(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteVisualization_MissingIs404(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM public\.visualizations`).
		WithArgs("v404", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := authedRequest(t, http.MethodDelete, "/api/visualizations/v404", "u1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "v404"})
	rec := httptest.NewRecorder()
	h.DeleteVisualization(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteContentTemplate_Success(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM public\.content_templates`).
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := authedRequest(t, http.MethodDelete, "/api/content-templates/t1", "u1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "t1"})
	rec := httptest.NewRecorder()
	h.DeleteContentTemplate(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestListContentTemplates_PlatformQueryForwarded(t *testing.T) {
	h, mock, closeDB := newTestHandler(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`AND platform = \$2 ORDER BY created_at DESC`).
		WithArgs("u1", "Instagram").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "title", "content", "platform", "category", "is_active", "created_at"}).
				AddRow("t1", "u1", "Caption", "body", "Instagram", nil, true, now),
		)

	rec := httptest.NewRecorder()
	h.ListContentTemplates(rec, authedRequest(t, http.MethodGet, "/api/content-templates?platform=Instagram", "u1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoUserID(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(UserID(r.Context())))
}

func TestRequire_NoIdentityIs401(t *testing.T) {
	a := &Authenticator{}
	rec := httptest.NewRecorder()

	a.Require(echoUserID)(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body got content-type %q", ct)
	}
}

func TestRequire_ForwardedIdentityReachesContext(t *testing.T) {
	a := &Authenticator{}
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Auth-User-Id", "  u1  ")
	a.Require(echoUserID)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "u1" {
		t.Fatalf("expected trimmed id u1 got %q", got)
	}
}

func TestRequire_GatewaySecretEnforcedWhenSet(t *testing.T) {
	a := &Authenticator{Secret: "s3cret"}

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Auth-User-Id", "u1")
	rec := httptest.NewRecorder()
	a.Require(echoUserID)(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret: expected 401 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Auth-User-Id", "u1")
	req.Header.Set("X-Auth-Gateway-Secret", "wrong")
	rec = httptest.NewRecorder()
	a.Require(echoUserID)(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Auth-User-Id", "u1")
	req.Header.Set("X-Auth-Gateway-Secret", "s3cret")
	rec = httptest.NewRecorder()
	a.Require(echoUserID)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("correct secret: expected 200 got %d", rec.Code)
	}
}

func TestUserID_MissingIsEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserID(r.Context()); got != "" {
		t.Fatalf("expected empty id got %q", got)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserAuth_MissingHeader(t *testing.T) {
	handler := UserAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a user header")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/boards", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestUserAuth_SetsContextUser(t *testing.T) {
	var got string
	handler := UserAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/boards", nil)
	req.Header.Set(UserHeader, "alice")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got != "alice" {
		t.Errorf("context user = %q; want alice", got)
	}
}

func TestGetUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if uid := GetUserIDFromContext(req.Context()); uid != "" {
		t.Errorf("got %q; want empty string", uid)
	}
}

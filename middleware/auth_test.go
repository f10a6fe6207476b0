package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project/utils"
)

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateAccessToken(7, "user", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotID uint
	var gotRole string
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetUserID(r)
		gotRole = utils.GetUserRole(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://example.local/portfolio", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != 7 {
		t.Fatalf("expected user id 7 in context, got %d", gotID)
	}
	if gotRole != "user" {
		t.Fatalf("expected role user in context, got %q", gotRole)
	}
}

func TestAuthMiddleware_MissingOrBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	for _, authz := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest("GET", "http://example.local/portfolio", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("authz %q: expected 401, got %d", authz, rec.Code)
		}
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateAccessToken(7, "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	req := httptest.NewRequest("GET", "http://example.local/portfolio", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

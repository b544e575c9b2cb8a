// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gemfluence/backend/internal/core"
)

type stubVerifier struct {
	claims *TokenClaims
	err    error

	gotToken string
	gotScope string
}

func (s *stubVerifier) VerifyToken(
	_ context.Context,
	token, requiredScope string,
) (*TokenClaims, error) {
	s.gotToken = token
	s.gotScope = requiredScope
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func TestRequireScopeAdmitsValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: &TokenClaims{
		UserID: "user-1",
		Role:   "standard_user",
		Scope:  ScopeAccessAPI,
	}}

	var gotUserID, gotScope string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotScope = GetTokenScope(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer the-token")
	rec := httptest.NewRecorder()

	RequireScope(verifier, ScopeAccessAPI)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if verifier.gotToken != "the-token" {
		t.Errorf("token passed to verifier = %q", verifier.gotToken)
	}
	if verifier.gotScope != ScopeAccessAPI {
		t.Errorf("scope passed to verifier = %q", verifier.gotScope)
	}
	if gotUserID != "user-1" || gotScope != ScopeAccessAPI {
		t.Errorf("context: user=%q scope=%q", gotUserID, gotScope)
	}
}

func TestRequireScopeRejectsMissingToken(t *testing.T) {
	verifier := &stubVerifier{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	RequireScope(verifier, ScopeAccessAPI)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireScopeRejectsVerifierErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"expired", fmt.Errorf("verify: %w", core.ErrTokenExpired)},
		{"revoked", fmt.Errorf("verify: %w", core.ErrTokenRevoked)},
		{"wrong scope", fmt.Errorf("verify: %w", core.ErrTokenInvalid)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &stubVerifier{err: tc.err}
			next := http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run on verification failure")
				},
			)

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Bearer bad-token")
			rec := httptest.NewRecorder()

			RequireScope(verifier, ScopeAccessAPI)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	))

	adminCtx := context.WithValue(context.Background(), UserRoleKey, "admin")
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil).
		WithContext(adminCtx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}

	userCtx := context.WithValue(
		context.Background(),
		UserRoleKey,
		"standard_user",
	)
	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil).
		WithContext(userCtx)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("standard user: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"", ""},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := ExtractToken(req); got != tc.want {
			t.Errorf("ExtractToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

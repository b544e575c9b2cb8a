// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gemfluence/backend/internal/config"
	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/middleware"
)

func newTestJWTManager(t *testing.T, accessExpire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessExpire,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "gemfluence",
		Audience:           "gemfluence-api",
	})
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}

	return manager
}

func TestCreateAndVerifyToken(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	issued, err := manager.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeAccessAPI,
	)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	if issued.Hash != core.HashToken(issued.Token) {
		t.Fatal("issued hash must match the token's sha256")
	}

	claims, err := manager.Verify(issued.Token, middleware.ScopeAccessAPI)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("user id = %q, want user-123", claims.UserID)
	}
	if claims.Role != "standard_user" {
		t.Errorf("role = %q, want standard_user", claims.Role)
	}
	if claims.Scope != middleware.ScopeAccessAPI {
		t.Errorf("scope = %q, want %q", claims.Scope, middleware.ScopeAccessAPI)
	}
	if claims.TokenID != issued.ID {
		t.Errorf("token id = %q, want %q", claims.TokenID, issued.ID)
	}
}

func TestVerifyRejectsCrossScope(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	access, err := manager.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeAccessAPI,
	)
	if err != nil {
		t.Fatalf("create access token: %v", err)
	}

	refresh, err := manager.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeIssueAccessToken,
	)
	if err != nil {
		t.Fatalf("create refresh token: %v", err)
	}

	if _, err := manager.Verify(
		access.Token,
		middleware.ScopeIssueAccessToken,
	); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("access token on refresh endpoint: got %v, want ErrTokenInvalid", err)
	}

	if _, err := manager.Verify(
		refresh.Token,
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("refresh token on access endpoint: got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	issued, err := manager.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeAccessAPI,
	)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	if _, err := manager.Verify(
		issued.Token,
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("expired token: got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	if _, err := manager.Verify(
		"not.a.token",
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("garbage token: got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)
	other := newTestJWTManager(t, 15*time.Minute)

	issued, err := other.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeAccessAPI,
	)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	if _, err := manager.Verify(
		issued.Token,
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("foreign-signed token: got %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenUsesRefreshLifetime(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	refresh, err := manager.CreateToken(
		"user-123",
		"standard_user",
		middleware.ScopeIssueAccessToken,
	)
	if err != nil {
		t.Fatalf("create refresh token: %v", err)
	}

	if time.Until(refresh.ExpiresAt) < 23*time.Hour {
		t.Errorf(
			"refresh expiry %v too soon, want roughly 24h out",
			refresh.ExpiresAt,
		)
	}
}

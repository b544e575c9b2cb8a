// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gemfluence/backend/internal/core"
)

const (
	UserIDKey     contextKey = "user_id"
	UserRoleKey   contextKey = "user_role"
	TokenScopeKey contextKey = "token_scope"
)

// Token abilities. Every issued token carries exactly one, and every
// protected endpoint demands exactly one.
const (
	ScopeAccessAPI        = "access_api"
	ScopeIssueAccessToken = "issue_access_token"
)

type TokenClaims struct {
	UserID  string
	Role    string
	Scope   string
	TokenID string
}

// TokenVerifier checks a bearer token cryptographically and against the
// token store, and enforces that it carries the required scope.
type TokenVerifier interface {
	VerifyToken(
		ctx context.Context,
		token, requiredScope string,
	) (*TokenClaims, error)
}

// RequireScope builds an authenticator that only admits tokens carrying the
// given ability. A valid token with the wrong scope is rejected with 401.
func RequireScope(
	verifier TokenVerifier,
	scope string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyToken(r.Context(), token, scope)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			ctx = context.WithValue(ctx, TokenScopeKey, claims.Scope)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.Unauthorized(w, "authentication required")
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetTokenScope(ctx context.Context) string {
	if scope, ok := ctx.Value(TokenScopeKey).(string); ok {
		return scope
	}
	return ""
}

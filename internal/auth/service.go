// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// ChatSessions is the best-effort slice of the chat provider used during
// authentication. Try* methods log failures and return nothing; the outcome
// is deliberately not surfaced to the caller (the primary operation must not
// depend on the chat side).
type ChatSessions interface {
	TryCreateUser(ctx context.Context, uid, name string)
	SessionToken(ctx context.Context, uid string) string
	TryRevokeSessions(ctx context.Context, uid string)
}

type BalanceProvider interface {
	Balance(ctx context.Context, userID string) (int, error)
}

type Service struct {
	repo     Repository
	jwt      *JWTManager
	users    UserProvider
	chat     ChatSessions
	balances BalanceProvider
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	chat ChatSessions,
	balances BalanceProvider,
) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwt,
		users:    users,
		chat:     chat,
		balances: balances,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.chat.TryCreateUser(ctx, user.ID, user.Name)

	return &RegisterResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	access, refresh, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:        access.Token,
		RefreshToken: refresh.Token,
		ChatToken:    s.chat.SessionToken(ctx, user.ID),
		ExpiresAt:    access.ExpiresAt.Unix(),
		User:         toUserResponse(user),
	}, nil
}

// Refresh is a full rotation: every outstanding token for the user is
// revoked before the new pair is issued, so the presented refresh token
// cannot be replayed.
func (s *Service) Refresh(
	ctx context.Context,
	userID string,
) (*RefreshResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if _, err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("revoke tokens: %w", err)
	}

	access, refresh, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		Token:        access.Token,
		RefreshToken: refresh.Token,
		ChatToken:    s.chat.SessionToken(ctx, user.ID),
		ExpiresAt:    access.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if _, err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	s.chat.TryRevokeSessions(ctx, userID)

	return nil
}

// VerifyToken implements middleware.TokenVerifier: signature and claims
// first, then registry presence. A cryptographically valid token whose row
// was deleted by logout or refresh is treated as revoked.
func (s *Service) VerifyToken(
	ctx context.Context,
	token, requiredScope string,
) (*middleware.TokenClaims, error) {
	claims, err := s.jwt.Verify(token, requiredScope)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	// The registry row is authoritative; the cleanup job may lag.
	if stored.IsExpired() {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}

	return claims, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	gems, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	return &MeResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Gems:      gems,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) issuePair(
	ctx context.Context,
	user *UserInfo,
) (*IssuedToken, *IssuedToken, error) {
	access, err := s.jwt.CreateToken(
		user.ID,
		user.Role,
		middleware.ScopeAccessAPI,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateToken(
		user.ID,
		user.Role,
		middleware.ScopeIssueAccessToken,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create refresh token: %w", err)
	}

	for _, issued := range []*IssuedToken{access, refresh} {
		record := &Token{
			ID:        issued.ID,
			UserID:    user.ID,
			TokenHash: issued.Hash,
			Scope:     issued.Scope,
			ExpiresAt: issued.ExpiresAt,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, nil, fmt.Errorf("store token: %w", err)
		}
	}

	return access, refresh, nil
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

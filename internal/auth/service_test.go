// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/middleware"
)

type mockTokenRepo struct {
	tokens  map[string]*Token
	deleted int
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: map[string]*Token{}}
}

func (m *mockTokenRepo) Create(_ context.Context, token *Token) error {
	token.CreatedAt = time.Now()
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) FindByHash(
	_ context.Context,
	hash string,
) (*Token, error) {
	token, ok := m.tokens[hash]
	if !ok {
		return nil, core.ErrNotFound
	}
	return token, nil
}

func (m *mockTokenRepo) DeleteAllForUser(
	_ context.Context,
	userID string,
) (int64, error) {
	var count int64
	for hash, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, hash)
			count++
		}
	}
	m.deleted += int(count)
	return count, nil
}

func (m *mockTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type mockUsers struct {
	byEmail      map[string]*UserInfo
	created      []*UserInfo
	rehashed     map[string]string
	createErr    error
	duplicateErr bool
}

func newMockUsers(users ...*UserInfo) *mockUsers {
	m := &mockUsers{
		byEmail:  map[string]*UserInfo{},
		rehashed: map[string]string{},
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUsers) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return user, nil
}

func (m *mockUsers) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *mockUsers) Create(
	_ context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	if m.duplicateErr {
		return nil, core.ErrDuplicateKey
	}
	if m.createErr != nil {
		return nil, m.createErr
	}

	user := &UserInfo{
		ID:           "user-" + name,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         "standard_user",
		CreatedAt:    time.Now(),
	}
	m.byEmail[email] = user
	m.created = append(m.created, user)
	return user, nil
}

func (m *mockUsers) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	m.rehashed[userID] = passwordHash
	return nil
}

type mockChat struct {
	createdUsers   []string
	revokedUsers   []string
	sessionToken   string
	tokenRequested []string
}

func (m *mockChat) TryCreateUser(_ context.Context, uid, _ string) {
	m.createdUsers = append(m.createdUsers, uid)
}

func (m *mockChat) SessionToken(_ context.Context, uid string) string {
	m.tokenRequested = append(m.tokenRequested, uid)
	return m.sessionToken
}

func (m *mockChat) TryRevokeSessions(_ context.Context, uid string) {
	m.revokedUsers = append(m.revokedUsers, uid)
}

type mockBalances struct {
	gems int
	err  error
}

func (m *mockBalances) Balance(_ context.Context, _ string) (int, error) {
	return m.gems, m.err
}

func newTestService(
	t *testing.T,
	users *mockUsers,
) (*Service, *mockTokenRepo, *mockChat) {
	t.Helper()

	repo := newMockTokenRepo()
	chat := &mockChat{sessionToken: "chat-session-token"}
	manager := newTestJWTManager(t, 15*time.Minute)

	svc := NewService(repo, manager, users, chat, &mockBalances{gems: 42})
	return svc, repo, chat
}

func testUser(t *testing.T, email, password string) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return &UserInfo{
		ID:           "user-1",
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         "standard_user",
		CreatedAt:    time.Now(),
	}
}

func TestRegisterCreatesUserAndChatIdentity(t *testing.T) {
	users := newMockUsers()
	svc, _, chat := newTestService(t, users)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.User.Email != "alice@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}
	if resp.User.Role != "standard_user" {
		t.Errorf("role = %q, want standard_user", resp.User.Role)
	}
	if len(users.created) != 1 {
		t.Fatalf("created %d users, want 1", len(users.created))
	}
	if users.created[0].PasswordHash == "password123" {
		t.Fatal("password stored in plaintext")
	}
	if len(chat.createdUsers) != 1 {
		t.Fatalf("chat identities created = %d, want 1", len(chat.createdUsers))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMockUsers()
	users.duplicateErr = true
	svc, _, _ := newTestService(t, users)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("got %v, want ErrEmailExists", err)
	}
}

func TestLoginIssuesScopedPair(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, repo, _ := newTestService(t, newMockUsers(user))

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens in the pair")
	}
	if resp.Token == resp.RefreshToken {
		t.Fatal("access and refresh token must differ")
	}
	if resp.ChatToken != "chat-session-token" {
		t.Errorf("chat token = %q", resp.ChatToken)
	}
	if len(repo.tokens) != 2 {
		t.Fatalf("stored %d token rows, want 2", len(repo.tokens))
	}

	scopes := map[string]bool{}
	for _, token := range repo.tokens {
		scopes[token.Scope] = true
	}
	if !scopes[middleware.ScopeAccessAPI] ||
		!scopes[middleware.ScopeIssueAccessToken] {
		t.Fatalf("stored scopes = %v, want both abilities", scopes)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, repo, _ := newTestService(t, newMockUsers(user))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if len(repo.tokens) != 0 {
		t.Fatal("no tokens must be issued on failed login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t, newMockUsers())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyTokenRejectsRevoked(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, _, _ := newTestService(t, newMockUsers(user))
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(
		ctx,
		resp.Token,
		middleware.ScopeAccessAPI,
	); err != nil {
		t.Fatalf("verify before logout: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.VerifyToken(
		ctx,
		resp.Token,
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("got %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshRotatesEverything(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, repo, _ := newTestService(t, newMockUsers(user))
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, user.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if len(repo.tokens) != 2 {
		t.Fatalf("stored %d token rows after refresh, want 2", len(repo.tokens))
	}

	// the pre-refresh pair is gone from the registry
	if _, err := svc.VerifyToken(
		ctx,
		login.Token,
		middleware.ScopeAccessAPI,
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("old access token: got %v, want ErrTokenRevoked", err)
	}
	if _, err := svc.VerifyToken(
		ctx,
		login.RefreshToken,
		middleware.ScopeIssueAccessToken,
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("old refresh token: got %v, want ErrTokenRevoked", err)
	}

	if _, err := svc.VerifyToken(
		ctx,
		refreshed.Token,
		middleware.ScopeAccessAPI,
	); err != nil {
		t.Fatalf("new access token: %v", err)
	}
}

func TestLogoutRevokesChatSessions(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, _, chat := newTestService(t, newMockUsers(user))

	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(chat.revokedUsers) != 1 || chat.revokedUsers[0] != user.ID {
		t.Fatalf("chat revocations = %v, want [%s]", chat.revokedUsers, user.ID)
	}
}

func TestGetCurrentUserIncludesGems(t *testing.T) {
	user := testUser(t, "bob@example.com", "hunter2hunter2")
	svc, _, _ := newTestService(t, newMockUsers(user))

	me, err := svc.GetCurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get current user: %v", err)
	}

	if me.Gems != 42 {
		t.Errorf("gems = %d, want 42", me.Gems)
	}
	if me.Email != user.Email {
		t.Errorf("email = %q", me.Email)
	}
}

// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	valid, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !valid {
		t.Fatal("expected matching password to verify")
	}

	valid, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if valid {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordTimingSafeWithMissingHash(t *testing.T) {
	valid, _, err := VerifyPasswordTimingSafe("any password", nil)
	if err != nil {
		t.Fatalf("timing safe verify: %v", err)
	}
	if valid {
		t.Fatal("nil hash must never verify")
	}

	empty := ""
	valid, _, err = VerifyPasswordTimingSafe("any password", &empty)
	if err != nil {
		t.Fatalf("timing safe verify: %v", err)
	}
	if valid {
		t.Fatal("empty hash must never verify")
	}
}

func TestVerifyPasswordTimingSafeMatch(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	valid, _, err := VerifyPasswordTimingSafe("secret123", &hash)
	if err != nil {
		t.Fatalf("timing safe verify: %v", err)
	}
	if !valid {
		t.Fatal("expected matching password to verify")
	}
}

func TestHashToken(t *testing.T) {
	hash := HashToken("some.bearer.token")

	if len(hash) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(hash))
	}
	if hash != HashToken("some.bearer.token") {
		t.Fatal("token hash must be deterministic")
	}
	if hash == HashToken("other.bearer.token") {
		t.Fatal("distinct tokens must hash differently")
	}

	if !CompareTokenHash("some.bearer.token", hash) {
		t.Fatal("expected token to match its own hash")
	}
	if CompareTokenHash("other.bearer.token", hash) {
		t.Fatal("expected mismatched token to fail comparison")
	}
}

// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestKeyByIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/influencers", nil)
	r.RemoteAddr = "10.0.0.1:9999"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	if got := KeyByIP(r); got != "ratelimit:ip:10.0.0.2" {
		t.Errorf("key = %q", got)
	}

	r.Header.Del("X-Forwarded-For")
	if got := KeyByIP(r); got != "ratelimit:ip:10.0.0.1" {
		t.Errorf("key = %q", got)
	}
}

func TestKeyByUserAndEndpointNormalizesIDs(t *testing.T) {
	r := httptest.NewRequest(
		"GET",
		"/admin/users/550e8400-e29b-41d4-a716-446655440000/role",
		nil,
	)
	ctx := context.WithValue(r.Context(), UserIDKey, "user-1")
	r = r.WithContext(ctx)

	got := KeyByUserAndEndpoint(r)
	want := "ratelimit:user:user-1:endpoint:/admin/users/{id}/role"
	if got != want {
		t.Errorf("key = %q, want %q", got, want)
	}
}

func TestPerWindowDefaultsToMinute(t *testing.T) {
	limit := PerWindow(100, 20, 0)
	if limit.Period != time.Minute {
		t.Errorf("period = %v, want 1m", limit.Period)
	}
	if limit.Rate != 100 || limit.Burst != 20 {
		t.Errorf("limit = %+v", limit)
	}

	limit = PerWindow(30, 5, time.Hour)
	if limit.Period != time.Hour {
		t.Errorf("period = %v, want 1h", limit.Period)
	}
}

package apikey

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/umleit-dev/umleit/pkg/auth"
)

func newTestAuthenticator() *Authenticator {
	return New([]RawKeyEntry{
		{
			Key:      "sk-valid-key-1",
			Identity: auth.Identity{Subject: "alice", ServiceTier: "premium"},
		},
		{
			Key:      "sk-valid-key-2",
			Identity: auth.Identity{Subject: "bob"},
		},
	})
}

func TestAPIKeyValid(t *testing.T) {
	a := newTestAuthenticator()

	r := httptest.NewRequest("POST", "/v1/chat/completions", nil)
	r.Header.Set("Authorization", "Bearer sk-valid-key-1")

	result := a.Authenticate(context.Background(), r)

	if result.Decision != auth.Yes {
		t.Fatalf("Decision = %d, want Yes", result.Decision)
	}
	if result.Identity.Subject != "alice" || result.Identity.ServiceTier != "premium" {
		t.Errorf("Identity = %+v", result.Identity)
	}
}

func TestAPIKeyInvalid(t *testing.T) {
	a := newTestAuthenticator()

	r := httptest.NewRequest("POST", "/v1/chat/completions", nil)
	r.Header.Set("Authorization", "Bearer sk-wrong-key")

	result := a.Authenticate(context.Background(), r)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if result.Err == nil {
		t.Error("Err is nil for rejected key")
	}
}

func TestAPIKeyAbstains(t *testing.T) {
	a := newTestAuthenticator()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/v1/chat/completions", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			result := a.Authenticate(context.Background(), r)

			if result.Decision != auth.Abstain {
				t.Fatalf("Decision = %d, want Abstain", result.Decision)
			}
		})
	}
}

func TestAPIKeyEmptyBearer(t *testing.T) {
	a := newTestAuthenticator()

	r := httptest.NewRequest("POST", "/v1/chat/completions", nil)
	r.Header.Set("Authorization", "Bearer ")

	result := a.Authenticate(context.Background(), r)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No (empty bearer)", result.Decision)
	}
}

func TestAPIKeyIdentityCopied(t *testing.T) {
	a := newTestAuthenticator()

	r := httptest.NewRequest("POST", "/v1/chat/completions", nil)
	r.Header.Set("Authorization", "Bearer sk-valid-key-2")

	first := a.Authenticate(context.Background(), r)
	first.Identity.Subject = "mutated"

	second := a.Authenticate(context.Background(), r)
	if second.Identity.Subject != "bob" {
		t.Errorf("stored identity mutated through result: %q", second.Identity.Subject)
	}
}

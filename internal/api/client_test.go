package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tgconsole/internal/api"
	"tgconsole/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, 5*time.Second, nil)
}

func TestSessionStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/status" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Session{
			Authenticated: true,
			Profile:       &domain.Profile{Username: "opsbot", Verified: true},
		})
	})

	s, err := c.SessionStatus(context.Background())
	if err != nil {
		t.Fatalf("SessionStatus() error: %v", err)
	}
	if !s.Authenticated {
		t.Error("Authenticated = false, want true")
	}
	if s.Profile == nil || s.Profile.Username != "opsbot" {
		t.Errorf("Profile = %+v, want username opsbot", s.Profile)
	}
}

func TestVerifyCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["phone_code"] != "12345" {
			t.Errorf("phone_code = %q, want 12345", body["phone_code"])
		}
		json.NewEncoder(w).Encode(map[string]any{"requires_2fa": true})
	})

	requires2FA, err := c.VerifyCode(context.Background(), "12345")
	if err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}
	if !requires2FA {
		t.Error("requires2FA = false, want true")
	}
}

func TestErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired phone code"})
	})

	_, err := c.VerifyCode(context.Background(), "00000")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Detail != "Invalid or expired phone code" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"api error with detail", &api.Error{StatusCode: 400, Detail: "bad code"}, "generic", "bad code"},
		{"api error without detail", &api.Error{StatusCode: 500}, "generic", "generic"},
		{"transport error", errors.New("connection refused"), "generic", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := api.Detail(tt.err, tt.fallback); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBulkCreateGroups(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups/bulk" {
			t.Errorf("path = %s, want /groups/bulk", r.URL.Path)
		}
		var body map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if len(body["groups"]) != 2 {
			t.Errorf("submitted %d groups, want 2", len(body["groups"]))
		}
		// Backend created only one of the two (the other already existed).
		json.NewEncoder(w).Encode([]domain.GroupTarget{
			{ID: "g1", Identifier: "@foo", Type: domain.RefUsername},
		})
	})

	created, err := c.BulkCreateGroups(context.Background(), []string{"@foo", "@bar"})
	if err != nil {
		t.Fatalf("BulkCreateGroups() error: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("created = %d, want 1", len(created))
	}
}

func TestRequestIDHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte("{}"))
	})

	if err := c.SendCode(context.Background()); err != nil {
		t.Fatalf("SendCode() error: %v", err)
	}
}

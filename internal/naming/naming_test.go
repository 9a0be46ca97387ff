package naming

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAppHostName(t *testing.T) {
	if got := AppHostName("llm-inference", "abc123", false); got != "llm-inference--abc123" {
		t.Errorf("http host name = %q", got)
	}
	if got := AppHostName("weaviate", "abc123", true); got != "weaviate--abc123-grpc" {
		t.Errorf("grpc host name = %q", got)
	}
}

func TestPlatformSecretKeyRoundTrip(t *testing.T) {
	key := PlatformSecretKey("app1", "postgres-admin-password")
	if key != "postgres-admin-password-app1" {
		t.Fatalf("unexpected key %q", key)
	}
	logical, ok := LogicalSecretKey("app1", key)
	if !ok || logical != "postgres-admin-password" {
		t.Fatalf("LogicalSecretKey = %q, %v", logical, ok)
	}
	if _, ok := LogicalSecretKey("app2", key); ok {
		t.Error("key must not belong to another app")
	}
	if _, ok := LogicalSecretKey("app1", "-app1"); ok {
		t.Error("empty logical key must be rejected")
	}
}

func TestValidateHostname(t *testing.T) {
	cases := []struct {
		name     string
		host     string
		want     string
		tooLong  bool
		otherErr bool
	}{
		{name: "valid", host: "app--x.apps.example.com", want: "app--x.apps.example.com"},
		{name: "trailing dot stripped", host: "app.example.com.", want: "app.example.com"},
		{name: "label at limit", host: strings.Repeat("a", 63) + ".example.com", want: strings.Repeat("a", 63) + ".example.com"},
		{name: "label over limit", host: strings.Repeat("a", 64) + ".example.com", tooLong: true},
		{name: "uppercase", host: "App.example.com", otherErr: true},
		{name: "empty", host: "", otherErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateHostname(tc.host)
			switch {
			case tc.tooLong:
				if !errors.Is(err, ErrLabelTooLong) {
					t.Fatalf("expected ErrLabelTooLong, got %v", err)
				}
			case tc.otherErr:
				if err == nil || errors.Is(err, ErrLabelTooLong) {
					t.Fatalf("expected syntax error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tc.want {
					t.Errorf("got %q, want %q", got, tc.want)
				}
			}
		})
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateDBUserName("admin"); err != nil {
		t.Errorf("admin: %v", err)
	}
	if err := ValidateDBUserName("Admin_1"); err == nil {
		t.Error("expected error for Admin_1")
	}
	if err := ValidatePortName("http1"); err != nil {
		t.Errorf("http1: %v", err)
	}
	if err := ValidatePortName("this-port-name-is-too-long"); err == nil {
		t.Error("expected error for long port name")
	}
	if err := ValidateSecretDataKey("hf-token-app1"); err != nil {
		t.Errorf("secret key: %v", err)
	}
	if err := ValidateSecretDataKey("bad/key"); err == nil {
		t.Error("expected error for slash in key")
	}
	if err := ValidateEnvName("HF_TOKEN"); err != nil {
		t.Errorf("env: %v", err)
	}
}

func TestNewCompactID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID: %v", err)
		}
		if len(id) != 12 {
			t.Fatalf("length %d for %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if _, err := newCompactIDAt(time.Unix(max36x7, 0)); err == nil {
		t.Error("expected out of range error")
	}
	name := ImagePullServiceAccountName("app1", "0abcdefghijk")
	if len(name) > 63 || !strings.HasPrefix(name, "image-pull-") {
		t.Errorf("unexpected service account name %q", name)
	}
}

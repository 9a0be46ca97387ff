package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultSecretsStore is the name of the platform secret store holding app secrets.
const DefaultSecretsStore = "apps-secrets"

// SecretRef points at a value held in the platform secret store.
type SecretRef struct {
	Key   string `json:"key"`
	Store string `json:"store,omitempty"`
}

// StoreName returns Store or DefaultSecretsStore.
func (r SecretRef) StoreName() string {
	if r.Store == "" {
		return DefaultSecretsStore
	}
	return r.Store
}

// StrOrSecret is either a literal string or a SecretRef. The zero value is empty.
//
// JSON form: a plain string for literals, an object {"key": ...} for references.
type StrOrSecret struct {
	literal string
	ref     *SecretRef
}

// Literal returns a StrOrSecret holding s.
func Literal(s string) StrOrSecret { return StrOrSecret{literal: s} }

// Secret returns a StrOrSecret holding a reference to key.
func Secret(key string) StrOrSecret { return StrOrSecret{ref: &SecretRef{Key: key}} }

// FromRef returns a StrOrSecret holding ref.
func FromRef(ref SecretRef) StrOrSecret { return StrOrSecret{ref: &ref} }

// IsSecret reports whether s holds a reference.
func (s StrOrSecret) IsSecret() bool { return s.ref != nil }

// IsZero reports whether s holds neither a literal nor a reference.
func (s StrOrSecret) IsZero() bool { return s.ref == nil && s.literal == "" }

// Ref returns the reference or nil.
func (s StrOrSecret) Ref() *SecretRef { return s.ref }

// LiteralValue returns the literal and true, or "" and false for references.
func (s StrOrSecret) LiteralValue() (string, bool) {
	if s.ref != nil {
		return "", false
	}
	return s.literal, true
}

// String never prints the literal so that values cannot leak through %v.
func (s StrOrSecret) String() string {
	switch {
	case s.ref != nil:
		return fmt.Sprintf("secret(%s)", s.ref.Key)
	case s.literal != "":
		return "literal(***)"
	}
	return "<empty>"
}

func (s StrOrSecret) MarshalJSON() ([]byte, error) {
	if s.ref != nil {
		return json.Marshal(s.ref)
	}
	return json.Marshal(s.literal)
}

func (s *StrOrSecret) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = StrOrSecret{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var lit string
		if err := json.Unmarshal(data, &lit); err != nil {
			return err
		}
		*s = Literal(lit)
		return nil
	case len(data) > 0 && data[0] == '{':
		var ref SecretRef
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ref); err != nil {
			return fmt.Errorf("secret reference: %w", err)
		}
		if ref.Key == "" {
			return fmt.Errorf("secret reference: key required")
		}
		*s = FromRef(ref)
		return nil
	}
	return fmt.Errorf("expected string or secret reference, got %s", truncate(string(data), 16))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

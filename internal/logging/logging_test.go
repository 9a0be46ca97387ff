package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriterFormats(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
		want    string
	}{
		{format: "human", want: "msg=hello"},
		{format: "text", want: "msg=hello"},
		{format: "json", want: `"msg":"hello"`},
		{format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := NewWithWriter(tt.format, slog.LevelInfo, &buf)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for format %q", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			l.Info(context.Background(), "hello", "k", "v")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
	l := Discard()
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestSpan(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithWriter("text", slog.LevelInfo, &buf)
	ctx := WithLogger(context.Background(), l)

	_, done := Span(ctx, "Test:Op", "appId", "a1")
	done(nil)
	_, done = Span(ctx, "Test:Op")
	done(errors.New(strings.Repeat("x", 100)))

	out := buf.String()
	for _, want := range []string{"Test:Op/S", "Test:Op/EOK", "Test:Op/EFAIL", "appId=a1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 100)) {
		t.Error("error string was not truncated")
	}
}

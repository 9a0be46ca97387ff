package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunLogFilename(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"with millis", time.Date(2025, 12, 13, 9, 51, 5, 123_000_000, time.UTC), "appvalues-20251213-095105-123.log"},
		{"midnight", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "appvalues-20250101-000000-000.log"},
		{"end of year", time.Date(2025, 12, 31, 23, 59, 59, 999_999_999, time.UTC), "appvalues-20251231-235959-999.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunLogFilename(tt.time); got != tt.want {
				t.Errorf("RunLogFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenOutput(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		o, err := OpenOutput("none", "")
		if err != nil {
			t.Fatal(err)
		}
		if o.Writer() != io.Discard || o.Path != "" {
			t.Errorf("none output = %+v", o)
		}
	})
	t.Run("stderr", func(t *testing.T) {
		o, err := OpenOutput("-", "")
		if err != nil {
			t.Fatal(err)
		}
		if o.Writer() != os.Stderr {
			t.Errorf("writer is not stderr")
		}
		if err := o.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
	})
	t.Run("path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "run.log")
		o, err := OpenOutput(path, "")
		if err != nil {
			t.Fatal(err)
		}
		defer o.Close()
		if o.Path != path {
			t.Errorf("path = %q, want %q", o.Path, path)
		}
		if _, err := io.WriteString(o.Writer(), "line\n"); err != nil {
			t.Fatal(err)
		}
	})
	t.Run("auto", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		o, err := OpenOutput("auto", dir)
		if err != nil {
			t.Fatal(err)
		}
		defer o.Close()
		if filepath.Dir(o.Path) != dir || !strings.HasPrefix(filepath.Base(o.Path), "appvalues-") {
			t.Errorf("auto path = %q", o.Path)
		}
		if _, err := os.Stat(o.Path); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})
}

func TestPruneRunLogs(t *testing.T) {
	dir := t.TempDir()
	oldTime := time.Now().AddDate(0, 0, -10)
	newTime := time.Now().AddDate(0, 0, -3)

	write := func(name string, mtime time.Time) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
		return path
	}
	oldFile := write("appvalues-20251201-120000-000.log", oldTime)
	newFile := write("appvalues-20251210-120000-000.log", newTime)
	otherFile := write("other.log", oldTime)

	if err := PruneRunLogs(dir, 7); err != nil {
		t.Fatalf("PruneRunLogs() error = %v", err)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("old run log kept: %s", oldFile)
	}
	for _, keep := range []string{newFile, otherFile} {
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("%s removed: %v", keep, err)
		}
	}

	if err := PruneRunLogs(dir, 0); err != nil {
		t.Errorf("zero retention: %v", err)
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("zero retention removed %s", newFile)
	}
	if err := PruneRunLogs(filepath.Join(dir, "missing"), 7); err != nil {
		t.Errorf("missing dir: %v", err)
	}
}

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const runLogPrefix = "appvalues-"

// Output is a log destination resolved from a --log-output flag value.
type Output struct {
	Path   string // empty unless logging to a file
	file   *os.File
	writer io.Writer
}

// OpenOutput resolves a log destination:
//   - "" or "-": stderr
//   - "none": discard
//   - "auto": a new run log file named by RunLogFilename in dir
//   - path: append to the file, creating parent directories
func OpenOutput(spec, dir string) (*Output, error) {
	var path string
	switch strings.ToLower(spec) {
	case "", "-":
		return &Output{writer: os.Stderr}, nil
	case "none":
		return &Output{writer: io.Discard}, nil
	case "auto":
		path = filepath.Join(dir, RunLogFilename(time.Now().UTC()))
	default:
		path = spec
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory for %q: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &Output{Path: path, file: f, writer: f}, nil
}

// Writer returns the io.Writer for log output.
func (o *Output) Writer() io.Writer { return o.writer }

// Close closes the log file if one was opened.
func (o *Output) Close() error {
	if o.file != nil {
		return o.file.Close()
	}
	return nil
}

// RunLogFilename returns appvalues-YYYYMMDD-HHMMSS-sss.log for t, sss being
// milliseconds.
func RunLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d.log", runLogPrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000)
}

// PruneRunLogs removes run log files in dir older than retentionDays.
// Other files are left alone. A missing dir or retentionDays <= 0 is a no-op.
func PruneRunLogs(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, runLogPrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}

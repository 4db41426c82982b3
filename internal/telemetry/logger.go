package telemetry

import (
	"io"
	"os"
	"sort"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger writes structured JSON events. A nil *Logger is a valid no-op.
type Logger struct {
	log *clog.Logger
	w   io.WriteCloser
}

// NewJSONLogger logs to path, or discards everything when path is empty.
func NewJSONLogger(path string, debug bool) (*Logger, error) {
	if path == "" {
		return NewLogger(nopCloser{Writer: io.Discard}, debug), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return NewLogger(f, debug), nil
}

// NewLogger logs JSON lines to w. Debug events are kept only when debug is set.
func NewLogger(w io.WriteCloser, debug bool) *Logger {
	l := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Formatter:       clog.JSONFormatter,
		Level:           clog.InfoLevel,
	})
	if debug {
		l.SetLevel(clog.DebugLevel)
	}
	return &Logger{log: l, w: w}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Debug(msg, keyvals(fields)...)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(msg, keyvals(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Error(msg, keyvals(fields)...)
}

func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

func keyvals(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

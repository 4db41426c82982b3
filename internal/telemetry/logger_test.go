package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	logger, err := NewJSONLogger(path, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("session.start", map[string]any{"game": "timing", "level_num": 2})
	logger.Debug("session.tick", map[string]any{"p": 0.5})
	logger.Error("progress.write_failed", map[string]any{"error": "disk full"})
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("decode line %q: %v", sc.Text(), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (debug filtered), got %d", len(entries))
	}
	if entries[0]["msg"] != "session.start" || entries[0]["game"] != "timing" {
		t.Fatalf("unexpected first entry: %#v", entries[0])
	}
	if entries[1]["level"] != "error" {
		t.Fatalf("expected error level, got %#v", entries[1]["level"])
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	logger.Info("ignored", nil)
	logger.Error("ignored", map[string]any{"k": 1})
	if err := logger.Close(); err != nil {
		t.Fatalf("close nil logger: %v", err)
	}
}

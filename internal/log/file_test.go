package log

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWithFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "ketra.log")
	l := New(io.Discard, false, true)
	if err := l.WithFile(FileConfig{Path: path, Level: "debug"}); err != nil {
		t.Fatalf("WithFile() error = %v", err)
	}

	l.Printf("scanned %d projects\n", 3)
	l.Warn("bridge unavailable", "env", "bridged")
	l.Command("/tmp", "git", "status")(5 * time.Millisecond)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(records), records)
	}
	if records[0]["msg"] != "scanned 3 projects" || records[0]["level"] != "info" {
		t.Errorf("records[0] = %v", records[0])
	}
	if records[1]["level"] != "warn" || records[1]["env"] != "bridged" {
		t.Errorf("records[1] = %v", records[1])
	}
	if records[2]["msg"] != "exec" || records[2]["dir"] != "/tmp" {
		t.Errorf("records[2] = %v", records[2])
	}
}

func TestWithFileLevelFilters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ketra.log")
	l := New(io.Discard, false, false)
	if err := l.WithFile(FileConfig{Path: path, Level: "warn"}); err != nil {
		t.Fatalf("WithFile() error = %v", err)
	}

	l.Debug("hidden")
	l.Println("hidden too")
	l.Warn("kept")
	_ = l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("expected exactly one JSON record, got %q: %v", data, err)
	}
	if rec["msg"] != "kept" {
		t.Errorf("record = %v", rec)
	}
}

func TestWithFileEmptyPath(t *testing.T) {
	t.Parallel()

	l := New(io.Discard, false, false)
	if err := l.WithFile(FileConfig{}); err != nil {
		t.Errorf("WithFile() with empty path error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// emit exercises every output method once.
func emit(l *Logger) {
	l.Printf("scanned %d projects\n", 3)
	l.Println("done")
	l.Debug("probe", "path", "/ketra/api")
	l.Warn("bridge unreachable", "command", "wsl")
	l.Command("/ketra/api", "git", "status")(20 * time.Millisecond)
}

func TestModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    []string
		absent  []string
	}{
		{
			name: "default",
			want: []string{"scanned 3 projects\n", "done\n", "Warning: bridge unreachable command=wsl"},
			absent: []string{"probe", "$ git status"},
		},
		{
			name:    "verbose",
			verbose: true,
			want: []string{
				"scanned 3 projects", "probe path=/ketra/api",
				"[/ketra/api] $ git status (20ms)", "Warning: bridge unreachable",
			},
		},
		{
			name:   "quiet",
			quiet:  true,
			absent: []string{"scanned", "done", "probe", "Warning", "$ git"},
		},
		{
			name:    "quiet wins over verbose",
			verbose: true,
			quiet:   true,
			absent:  []string{"scanned", "probe", "$ git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			emit(New(&buf, tt.verbose, tt.quiet))
			got := buf.String()

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output = %q, want to contain %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("output = %q, should not contain %q", got, a)
				}
			}
		})
	}
}

func TestCommand_NoDir(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(&buf, true, false).Command("", "wsl", "--exec", "ls")(time.Second)

	if got := buf.String(); !strings.HasPrefix(got, "$ wsl --exec ls (1s)") {
		t.Errorf("Command output = %q, want prefix %q", got, "$ wsl --exec ls (1s)")
	}
}

func TestDebug_OddKeyvals(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(&buf, true, false).Debug("msg", "env", "bridged", "orphan")

	got := buf.String()
	if !strings.Contains(got, "env=bridged") || strings.Contains(got, "orphan") {
		t.Errorf("Debug output = %q, want only complete pairs", got)
	}
}

func TestIsVerbose(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct{ verbose, quiet, want bool }{
		{true, false, true},
		{false, true, false},
		{true, true, false},
		{false, false, false},
	} {
		if got := New(io.Discard, tt.verbose, tt.quiet).IsVerbose(); got != tt.want {
			t.Errorf("IsVerbose(verbose=%v, quiet=%v) = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	l := New(io.Discard, true, false)
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Error("FromContext did not return the stored logger")
	}

	fallback := FromContext(context.Background())
	if fallback.Writer() != io.Discard {
		t.Error("fallback logger should write to io.Discard")
	}
	emit(fallback)
	if err := fallback.Close(); err != nil {
		t.Errorf("Close() on fallback logger = %v", err)
	}
}

// Package log provides context-aware logging for ketra.
//
// Diagnostics go to stderr. When a log file is configured, every record is
// additionally written as JSON through zap (see [Logger.WithFile]).
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Logger provides output and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	file    *zap.Logger
	closer  io.Closer
}

// New creates a new logger.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet, file: zap.NewNop()}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard, file: zap.NewNop()}
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	l.file.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	l.file.Info(strings.TrimSpace(fmt.Sprintln(args...)))
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Command logs an external command execution. Call the returned function
// with the elapsed time once the command finished.
// Only prints when verbose mode is enabled.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	return func(d time.Duration) {
		l.file.Debug("exec",
			zap.String("dir", dir),
			zap.String("name", name),
			zap.Strings("args", args),
			zap.Duration("took", d))

		if !l.IsVerbose() {
			return
		}
		line := "$ " + strings.TrimSpace(name+" "+strings.Join(args, " "))
		if dir != "" {
			line = "[" + dir + "] " + line
		}
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// Debug logs a message with key/value pairs. Printed only in verbose mode.
func (l *Logger) Debug(msg string, kv ...any) {
	l.file.Debug(msg, fields(kv)...)
	if l.IsVerbose() {
		fmt.Fprintln(l.out, formatKV(msg, kv))
	}
}

// Warn logs a warning with key/value pairs. Suppressed by quiet.
func (l *Logger) Warn(msg string, kv ...any) {
	l.file.Warn(msg, fields(kv)...)
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, "Warning: "+formatKV(msg, kv))
}

// IsVerbose reports whether verbose output is printed. Quiet wins over verbose.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// Close flushes the file log, if any.
func (l *Logger) Close() error {
	_ = l.file.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func formatKV(msg string, kv []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

func fields(kv []any) []zap.Field {
	fs := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fs = append(fs, zap.Any(key, kv[i+1]))
	}
	return fs
}

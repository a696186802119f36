// Package envtest provides a fake bridge executable for tests.
//
// The fake understands the subset of the wsl command line ketra emits
// (--distribution, --cd, --exec) and executes the requested program directly
// on the host, so bridged code paths can be tested against temp directories.
package envtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Options configures a fake bridge.
type Options struct {
	// User is printed for "whoami". Empty falls through to the host whoami.
	User string
	// Unreachable makes every invocation fail the way wsl does without a
	// distribution installed.
	Unreachable bool
	// Log, when set, receives one line per invocation with the full argument list.
	Log string
}

// FakeBridge writes a fake bridge script into a temp dir and returns its path.
func FakeBridge(t testing.TB, opts Options) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if opts.Log != "" {
		b.WriteString("echo \"$*\" >> " + shellQuote(opts.Log) + "\n")
	}
	if opts.Unreachable {
		b.WriteString("echo 'Windows Subsystem for Linux has no installed distributions.' >&2\n")
		b.WriteString("exit 1\n")
	}
	b.WriteString(`if [ "$1" = "--distribution" ]; then shift 2; fi
if [ "$1" = "--cd" ]; then cd "$2" || exit 1; shift 2; fi
if [ "$1" = "--exec" ]; then shift; fi
`)
	if opts.User != "" {
		b.WriteString("if [ \"$1\" = \"whoami\" ]; then echo " + shellQuote(opts.User) + "; exit 0; fi\n")
	}
	b.WriteString("exec \"$@\"\n")

	path := filepath.Join(t.TempDir(), "fake-bridge")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("failed to write fake bridge: %v", err)
	}
	return path
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package project

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/git"
)

func TestMain(m *testing.M) {
	for k, v := range map[string]string{
		"GIT_AUTHOR_NAME":     "Test User",
		"GIT_AUTHOR_EMAIL":    "test@test.com",
		"GIT_COMMITTER_NAME":  "Test User",
		"GIT_COMMITTER_EMAIL": "test@test.com",
		"GIT_CONFIG_NOSYSTEM": "1",
		"GIT_CONFIG_COUNT":    "1",
		"GIT_CONFIG_KEY_0":    "commit.gpgsign",
		"GIT_CONFIG_VALUE_0":  "false",
	} {
		os.Setenv(k, v)
	}
	os.Exit(m.Run())
}

// delayedProber answers every probe after delay and tracks peak concurrency.
type delayedProber struct {
	delay time.Duration

	calls   atomic.Int32
	running atomic.Int32
	peak    atomic.Int32
}

func (p *delayedProber) Probe(ctx context.Context, e env.Environment, path string) *git.Status {
	p.calls.Add(1)
	n := p.running.Add(1)
	defer p.running.Add(-1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}

	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil
	}

	st := git.NewStatus(filepath.Base(path), 0, 0, 0)
	return &st
}

// nilProber reports every project as not a repository.
type nilProber struct{}

func (nilProber) Probe(context.Context, env.Environment, string) *git.Status { return nil }

// fakeHosting records created and deleted repositories.
type fakeHosting struct {
	url       string
	deleteErr error

	mu      sync.Mutex
	created []string
	deleted []string
}

func (f *fakeHosting) CreateRepo(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, name)
	return f.url, nil
}

func (f *fakeHosting) DeleteRepo(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

// failingRunner fails every command whose arguments contain arg and
// delegates the rest.
type failingRunner struct {
	next cmd.Runner
	arg  string
}

func (f failingRunner) Run(ctx context.Context, spec cmd.Spec) (cmd.Outcome, error) {
	if slices.Contains(spec.Args, f.arg) {
		return cmd.Outcome{Stderr: "fatal: simulated " + f.arg + " failure", ExitCode: 1}, nil
	}
	return f.next.Run(ctx, spec)
}

func resolveTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// mkProject creates a project folder under root with the given mtime.
func mkProject(t *testing.T, root, name string, mtime time.Time) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(dir, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := cmd.OutputContext(context.Background(), dir, "git", args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return string(out)
}

// newTestService builds a service over a native root and an optional
// bridged environment. bridge == nil disables the bridge.
func newTestService(t *testing.T, nativeRoot string, bridge *env.BridgedEnv, hosting *fakeHosting, opts Options) *Service {
	t.Helper()
	native := &env.NativeEnv{ProjectsDir: "ketra", RootOverride: nativeRoot}
	if bridge == nil {
		bridge = &env.BridgedEnv{}
	}
	res := env.NewResolver(native, bridge, []string{"/home/", "/mnt/"})

	client := &git.Client{
		Runner:        cmd.Exec{Timeout: 30 * time.Second},
		DefaultBranch: "main",
		ProbeTimeout:  10 * time.Second,
	}
	if hosting != nil {
		client.Hosting = hosting
		return NewService(res, client, hosting, opts)
	}
	return NewService(res, client, nil, opts)
}

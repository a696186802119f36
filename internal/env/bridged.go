package env

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/raphi011/ketra/internal/cmd"
)

// BridgedEnv proxies every operation through a bridge executable (wsl).
type BridgedEnv struct {
	// Enabled gates the environment. A disabled bridge never spawns anything.
	Enabled bool
	// Bridge is the bridge executable, e.g. "wsl".
	Bridge string
	// Distribution is passed as --distribution when set.
	Distribution string
	// User skips the whoami lookup when set.
	User string
	// ProjectsDir is the folder under /home/<user> holding projects.
	ProjectsDir string
	// RootOverride replaces the derived root when set.
	RootOverride string
	// Runner executes the bridge for environment-level commands
	// (user lookup, listing, filesystem operations).
	Runner cmd.Runner

	mu         sync.Mutex
	cachedUser string
}

var _ Environment = (*BridgedEnv)(nil)

// Kind returns Bridged.
func (b *BridgedEnv) Kind() Kind {
	return Bridged
}

// Root returns /home/<user>/<projects_dir> or the configured override.
func (b *BridgedEnv) Root(ctx context.Context) (string, error) {
	if !b.Enabled {
		return "", fmt.Errorf("%w: bridge is disabled", ErrEnvironmentUnavailable)
	}
	if b.RootOverride != "" {
		return b.RootOverride, nil
	}

	user, err := b.user(ctx)
	if err != nil {
		return "", err
	}
	return path.Join("/home", user, b.ProjectsDir), nil
}

// user returns the bridged user name. Only a successful lookup is cached,
// so a bridge that comes up later is picked up on the next scan.
func (b *BridgedEnv) user(ctx context.Context) (string, error) {
	if b.User != "" {
		return b.User, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cachedUser != "" {
		return b.cachedUser, nil
	}

	out, err := b.run(ctx, b.Command("", "whoami"))
	if err != nil {
		if errors.Is(err, ErrEnvironmentUnavailable) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrEnvironmentUnavailable, err)
	}

	user := strings.TrimSpace(out)
	if user == "" {
		return "", fmt.Errorf("%w: bridge reported no user", ErrEnvironmentUnavailable)
	}

	b.cachedUser = user
	return user, nil
}

// ListProjects lists the directories directly under root with find.
// LastOpened is always 0 since no metadata is fetched across the bridge.
func (b *BridgedEnv) ListProjects(ctx context.Context, root string) ([]Entry, error) {
	if !b.Enabled {
		return nil, fmt.Errorf("%w: bridge is disabled", ErrEnvironmentUnavailable)
	}

	out, err := b.run(ctx, b.Command("", "find", root, "-mindepth", "1", "-maxdepth", "1", "-type", "d"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var entries []Entry
	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name := path.Base(line)
		if strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, Entry{Name: name, Path: line})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Git builds a git invocation executed inside the bridged environment.
func (b *BridgedEnv) Git(dir string, args ...string) cmd.Spec {
	return b.Command(dir, "git", args...)
}

// Command builds "<bridge> [--distribution D] [--cd dir] --exec name args...".
// --exec runs name directly without a shell, so arguments are never reinterpreted.
func (b *BridgedEnv) Command(dir, name string, args ...string) cmd.Spec {
	bridgeArgs := make([]string, 0, len(args)+6)
	if b.Distribution != "" {
		bridgeArgs = append(bridgeArgs, "--distribution", b.Distribution)
	}
	if dir != "" {
		bridgeArgs = append(bridgeArgs, "--cd", dir)
	}
	bridgeArgs = append(bridgeArgs, "--exec", name)
	bridgeArgs = append(bridgeArgs, args...)

	return cmd.Spec{Name: b.bridge(), Args: bridgeArgs}
}

func (b *BridgedEnv) bridge() string {
	if b.Bridge == "" {
		return "wsl"
	}
	return b.Bridge
}

// IsRepo checks for <path>/.git with test -e.
func (b *BridgedEnv) IsRepo(ctx context.Context, p string) bool {
	return b.Exists(ctx, path.Join(p, ".git"))
}

// Exists reports whether p exists inside the bridged environment.
// An unreachable bridge reports false.
func (b *BridgedEnv) Exists(ctx context.Context, p string) bool {
	if !b.Enabled {
		return false
	}
	_, err := b.run(ctx, b.Command("", "test", "-e", p))
	return err == nil
}

// Remove deletes p recursively with rm -rf.
func (b *BridgedEnv) Remove(ctx context.Context, p string) error {
	_, err := b.run(ctx, b.Command("", "rm", "-rf", "--", p))
	return err
}

// MkdirAll creates p and its parents.
func (b *BridgedEnv) MkdirAll(ctx context.Context, p string) error {
	_, err := b.run(ctx, b.Command("", "mkdir", "-p", "--", p))
	return err
}

// WriteFile writes data to p by piping it into tee.
func (b *BridgedEnv) WriteFile(ctx context.Context, p string, data []byte) error {
	spec := b.Command("", "tee", "--", p)
	spec.Stdin = strings.NewReader(string(data))
	_, err := b.run(ctx, spec)
	return err
}

// CopyDir copies the host directory src to dst. Host drive paths are
// translated to their /mnt mount first.
func (b *BridgedEnv) CopyDir(ctx context.Context, src, dst string) error {
	_, err := b.run(ctx, b.Command("", "cp", "-r", "--", HostToBridgePath(src), dst))
	return err
}

// Join joins slash-separated path elements.
func (b *BridgedEnv) Join(elem ...string) string {
	return path.Join(elem...)
}

// Base returns the last slash-separated path element.
func (b *BridgedEnv) Base(p string) string {
	return path.Base(p)
}

// run executes spec and returns stdout. Spawn failures and timeouts mean the
// bridge is unreachable; a non-zero exit carries stderr in the error.
func (b *BridgedEnv) run(ctx context.Context, spec cmd.Spec) (string, error) {
	if b.Runner == nil {
		return "", fmt.Errorf("%w: no runner configured", ErrEnvironmentUnavailable)
	}

	outcome, err := b.Runner.Run(ctx, spec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrEnvironmentUnavailable, err)
	}
	if !outcome.Succeeded() {
		msg := strings.TrimSpace(outcome.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", outcome.ExitCode)
		}
		return "", fmt.Errorf("%s failed: %s", execName(spec), msg)
	}
	return outcome.Stdout, nil
}

// execName returns the program a bridge invocation executes.
func execName(spec cmd.Spec) string {
	for i, arg := range spec.Args {
		if arg == "--exec" && i+1 < len(spec.Args) {
			return spec.Args[i+1]
		}
	}
	return spec.Name
}

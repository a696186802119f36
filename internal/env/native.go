package env

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/ketra/internal/cmd"
)

// NativeEnv runs commands directly on the host.
type NativeEnv struct {
	// ProjectsDir is the folder under the home directory holding projects.
	ProjectsDir string
	// RootOverride replaces the derived root when set.
	RootOverride string
	// HomeDir returns the user profile location. Defaults to os.UserHomeDir.
	HomeDir func() (string, error)
}

var _ Environment = (*NativeEnv)(nil)

// Kind returns Native.
func (n *NativeEnv) Kind() Kind {
	return Native
}

// Root returns <home>/<projects_dir> or the configured override.
func (n *NativeEnv) Root(ctx context.Context) (string, error) {
	if n.RootOverride != "" {
		return n.RootOverride, nil
	}
	homeDir := n.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: cannot determine the user profile directory: %v", ErrConfiguration, err)
	}
	return filepath.Join(home, n.ProjectsDir), nil
}

// ListProjects lists the directories directly under root.
// Entries whose metadata can't be read are kept with LastOpened 0.
func (n *NativeEnv) ListProjects(ctx context.Context, root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if !de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}

		var lastOpened int64
		if info, err := de.Info(); err == nil {
			lastOpened = info.ModTime().Unix()
		}

		entries = append(entries, Entry{
			Name:       de.Name(),
			Path:       filepath.Join(root, de.Name()),
			LastOpened: lastOpened,
		})
	}

	return entries, nil
}

// Git builds "git -C <dir> <args...>".
func (n *NativeEnv) Git(dir string, args ...string) cmd.Spec {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	return cmd.Spec{Name: "git", Args: args}
}

// Command builds an invocation with dir as working directory.
func (n *NativeEnv) Command(dir, name string, args ...string) cmd.Spec {
	return cmd.Spec{Name: name, Args: args, Dir: dir}
}

// IsRepo checks for a .git directory or file (worktree) in path.
func (n *NativeEnv) IsRepo(ctx context.Context, path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Exists reports whether path exists.
func (n *NativeEnv) Exists(ctx context.Context, path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes path recursively.
func (n *NativeEnv) Remove(ctx context.Context, path string) error {
	return os.RemoveAll(path)
}

// MkdirAll creates path and its parents.
func (n *NativeEnv) MkdirAll(ctx context.Context, path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes data to path.
func (n *NativeEnv) WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// CopyDir copies the directory tree src to dst. Existing files are never overwritten.
func (n *NativeEnv) CopyDir(ctx context.Context, src, dst string) error {
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Join joins host path elements.
func (n *NativeEnv) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Base returns the last host path element.
func (n *NativeEnv) Base(path string) string {
	return filepath.Base(path)
}

package env

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/ketra/internal/cmd"
)

var (
	// ErrConfiguration indicates a root could not be derived from the host configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrEnvironmentUnavailable indicates the bridged environment cannot be reached or used.
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
)

// Kind identifies an environment.
type Kind int

const (
	Native Kind = iota
	Bridged
)

// Kinds lists all environments in scan order.
var Kinds = []Kind{Native, Bridged}

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Bridged:
		return "bridged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses an environment name. The original launcher's names
// ("windows", "wsl") are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "host", "windows":
		return Native, nil
	case "bridged", "bridge", "wsl":
		return Bridged, nil
	default:
		return Native, fmt.Errorf("unknown environment %q: must be \"native\" or \"bridged\"", s)
	}
}

// Entry is a directory found directly under an environment's root.
type Entry struct {
	Name string
	Path string
	// LastOpened is the modification time in unix seconds, 0 if unknown.
	// Bridged entries always report 0.
	LastOpened int64
}

// Environment is implemented once per execution environment.
type Environment interface {
	Kind() Kind

	// Root resolves the folder that holds the environment's projects.
	Root(ctx context.Context) (string, error)

	// ListProjects enumerates the immediate subdirectories of root.
	ListProjects(ctx context.Context, root string) ([]Entry, error)

	// Git builds a git invocation that runs with dir as working directory.
	Git(dir string, args ...string) cmd.Spec

	// Command builds an arbitrary invocation that runs with dir as working directory.
	Command(dir, name string, args ...string) cmd.Spec

	// IsRepo reports whether path contains a .git entry.
	IsRepo(ctx context.Context, path string) bool

	Exists(ctx context.Context, path string) bool
	Remove(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, data []byte) error

	// CopyDir copies the host directory src to dst inside the environment.
	CopyDir(ctx context.Context, src, dst string) error

	Join(elem ...string) string
	Base(path string) string
}

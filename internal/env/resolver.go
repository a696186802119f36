package env

import (
	"context"
	"strings"
	"time"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/config"
)

// Resolver hands out the environment for a kind and infers ownership of paths.
type Resolver struct {
	native   *NativeEnv
	bridged  *BridgedEnv
	prefixes []string
}

// NewResolver creates a resolver over the given environments.
// prefixes are the path shapes owned by the bridged environment.
func NewResolver(native *NativeEnv, bridged *BridgedEnv, prefixes []string) *Resolver {
	return &Resolver{native: native, bridged: bridged, prefixes: prefixes}
}

// FromConfig builds both environments from cfg. Environment-level bridge
// commands (user lookup, listing) run with the probe timeout.
func FromConfig(cfg config.Config) *Resolver {
	native := &NativeEnv{
		ProjectsDir:  cfg.ProjectsDir,
		RootOverride: cfg.NativeRoot,
	}
	bridged := &BridgedEnv{
		Enabled:      cfg.Bridge.IsEnabled(),
		Bridge:       cfg.Bridge.Command,
		Distribution: cfg.Bridge.Distribution,
		User:         cfg.Bridge.User,
		ProjectsDir:  cfg.ProjectsDir,
		RootOverride: cfg.Bridge.Root,
		Runner:       cmd.Exec{Timeout: time.Duration(cfg.ProbeTimeout)},
	}
	return NewResolver(native, bridged, cfg.Bridge.PathPrefixes)
}

// For returns the environment of kind k.
func (r *Resolver) For(k Kind) Environment {
	if k == Bridged {
		return r.bridged
	}
	return r.native
}

// Resolve resolves the root of kind k.
func (r *Resolver) Resolve(ctx context.Context, k Kind) (string, error) {
	return r.For(k).Root(ctx)
}

// BridgeEnabled reports whether the bridged environment is in use.
func (r *Resolver) BridgeEnabled() bool {
	return r.bridged != nil && r.bridged.Enabled
}

// Infer decides which environment owns path from its shape alone.
// With the bridge disabled every path is native.
func (r *Resolver) Infer(path string) Kind {
	if !r.BridgeEnabled() {
		return Native
	}
	for _, prefix := range r.prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return Bridged
		}
	}
	return Native
}

// HostToBridgePath translates a host drive path (C:\x\y) to its mount inside
// the bridged environment (/mnt/c/x/y). Paths that are already slash-rooted
// are returned unchanged.
func HostToBridgePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		rest := strings.TrimPrefix(p[2:], "/")
		drive := "/mnt/" + strings.ToLower(p[:1])
		if rest == "" {
			return drive
		}
		return drive + "/" + rest
	}
	return p
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

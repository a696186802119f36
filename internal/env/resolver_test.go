package env

import (
	"context"
	"errors"
	"testing"

	"github.com/raphi011/ketra/internal/config"
)

func TestResolverInfer(t *testing.T) {
	t.Parallel()

	prefixes := []string{"/home/", "/mnt/"}
	enabled := NewResolver(&NativeEnv{}, &BridgedEnv{Enabled: true}, prefixes)
	disabled := NewResolver(&NativeEnv{}, &BridgedEnv{Enabled: false}, prefixes)

	tests := []struct {
		path    string
		enabled Kind
	}{
		{"/home/me/ketra/app", Bridged},
		{"/mnt/c/Users/me/ketra/app", Bridged},
		{`C:\Users\me\ketra\app`, Native},
		{"/Users/me/ketra/app", Native},
		{"/homestead/app", Native},
		{"", Native},
	}

	for _, tt := range tests {
		if got := enabled.Infer(tt.path); got != tt.enabled {
			t.Errorf("Infer(%q) with bridge = %v, want %v", tt.path, got, tt.enabled)
		}
		if got := disabled.Infer(tt.path); got != Native {
			t.Errorf("Infer(%q) without bridge = %v, want native", tt.path, got)
		}
	}
}

func TestResolverFor(t *testing.T) {
	t.Parallel()

	r := NewResolver(&NativeEnv{RootOverride: "/n"}, &BridgedEnv{Enabled: true, RootOverride: "/home/x/ketra"}, nil)

	if r.For(Native).Kind() != Native || r.For(Bridged).Kind() != Bridged {
		t.Fatal("For() returned the wrong environment")
	}

	root, err := r.Resolve(context.Background(), Bridged)
	if err != nil || root != "/home/x/ketra" {
		t.Errorf("Resolve(Bridged) = %q, %v", root, err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	disabled := false
	cfg := config.Default()
	cfg.NativeRoot = "/srv/projects"
	cfg.Bridge.Enabled = &disabled

	r := FromConfig(cfg)
	if r.BridgeEnabled() {
		t.Error("BridgeEnabled() = true, want false")
	}

	root, err := r.Resolve(context.Background(), Native)
	if err != nil || root != "/srv/projects" {
		t.Errorf("Resolve(Native) = %q, %v", root, err)
	}

	if _, err := r.Resolve(context.Background(), Bridged); !errors.Is(err, ErrEnvironmentUnavailable) {
		t.Errorf("Resolve(Bridged) error = %v, want ErrEnvironmentUnavailable", err)
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/ketra/internal/config"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/project"
)

func TestLooksLikePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{".", true},
		{"..", true},
		{"./api", true},
		{"/home/me/ketra/api", true},
		{`C:\Users\me\ketra\api`, true},
		{"api", false},
		{"my-project", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := looksLikePath(tt.arg); got != tt.want {
				t.Errorf("looksLikePath(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Parallel()

	k, ok, err := parseEnv("")
	if err != nil || ok || k != env.Native {
		t.Errorf("parseEnv(\"\") = %v, %v, %v; want native, false, nil", k, ok, err)
	}

	k, ok, err = parseEnv("bridged")
	if err != nil || !ok || k != env.Bridged {
		t.Errorf("parseEnv(bridged) = %v, %v, %v; want bridged, true, nil", k, ok, err)
	}

	if _, _, err := parseEnv("docker"); err == nil {
		t.Error("parseEnv(docker) should fail")
	}
}

func TestFuzzyMatch(t *testing.T) {
	t.Parallel()

	projects := []project.Project{
		{Name: "website", Env: env.Native},
		{Name: "api-gateway", Env: env.Native},
		{Name: "notes", Env: env.Bridged},
	}

	got, ok := fuzzyMatch(projects, "apigw")
	if !ok {
		t.Fatal("fuzzyMatch(apigw) found nothing")
	}
	if got.Name != "api-gateway" {
		t.Errorf("fuzzyMatch(apigw) = %q, want api-gateway", got.Name)
	}

	if _, ok := fuzzyMatch(projects, "zzz"); ok {
		t.Error("fuzzyMatch(zzz) should find nothing")
	}
}

func TestFilterProjects(t *testing.T) {
	t.Parallel()

	projects := []project.Project{
		{Name: "api", Env: env.Native},
		{Name: "api", Env: env.Bridged},
		{Name: "app", Env: env.Native},
		{Name: "notes", Env: env.Native},
	}

	got := filterProjects(projects, "ap")
	want := []string{"api\tnative", "app\tnative"}
	if len(got) != len(want) {
		t.Fatalf("filterProjects() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filterProjects()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// appWithProjects returns a context whose services see the given native
// project folders and no bridged environment.
func appWithProjects(t *testing.T, names ...string) (context.Context, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if err := os.Mkdir(filepath.Join(root, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	off := false
	cfg := config.Default()
	cfg.NativeRoot = root
	cfg.Bridge.Enabled = &off

	ctx := config.WithConfig(context.Background(), &cfg)
	return withApp(ctx, newApp(&cfg)), root
}

func TestResolveExactRejectsFuzzyMatch(t *testing.T) {
	t.Parallel()
	ctx, root := appWithProjects(t, "api", "notes")

	_, err := resolveExact(ctx, "ap", "")
	if err == nil {
		t.Fatal("resolveExact(ap) succeeded, want not found")
	}
	if !strings.Contains(err.Error(), "not found") || !strings.Contains(err.Error(), `"api"`) {
		t.Errorf("resolveExact(ap) error = %v, want not found with a suggestion", err)
	}

	got, err := resolveExact(ctx, "api", "")
	if err != nil {
		t.Fatalf("resolveExact(api) error = %v", err)
	}
	if got.Path != filepath.Join(root, "api") {
		t.Errorf("resolveExact(api).Path = %q", got.Path)
	}
}

func TestResolveProjectFallsBackToFuzzy(t *testing.T) {
	t.Parallel()
	ctx, root := appWithProjects(t, "api", "notes")

	got, err := resolveProject(ctx, "ap", "")
	if err != nil {
		t.Fatalf("resolveProject(ap) error = %v", err)
	}
	if got.Path != filepath.Join(root, "api") {
		t.Errorf("resolveProject(ap).Path = %q, want the api folder", got.Path)
	}
}

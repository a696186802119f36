package project

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/raphi011/ketra/internal/env"
)

var testEnvs = env.NewResolver(&env.NativeEnv{}, &env.BridgedEnv{}, nil)

func makeProjects(n int) []Project {
	projects := make([]Project, n)
	for i := range projects {
		projects[i] = Project{
			Name:       fmt.Sprintf("p%d", i),
			Path:       fmt.Sprintf("/projects/p%d", i),
			LastOpened: int64(100 - i),
		}
	}
	return projects
}

func TestProbeAllRunsConcurrently(t *testing.T) {
	t.Parallel()

	prober := &delayedProber{delay: 200 * time.Millisecond}
	projects := makeProjects(8)

	start := time.Now()
	got := ProbeAll(context.Background(), prober, testEnvs, projects, 8)
	elapsed := time.Since(start)

	// Sequential probing would take 1.6s
	if elapsed > 800*time.Millisecond {
		t.Errorf("ProbeAll took %v, want well under the sum of probe times", elapsed)
	}
	if len(got) != len(projects) {
		t.Fatalf("got %d projects, want %d", len(got), len(projects))
	}
	for i, p := range got {
		if p.Name != projects[i].Name {
			t.Errorf("got[%d].Name = %q, want %q", i, p.Name, projects[i].Name)
		}
		if p.GitStatus == nil || p.GitStatus.Branch != projects[i].Name {
			t.Errorf("got[%d].GitStatus = %+v, want branch %q", i, p.GitStatus, projects[i].Name)
		}
	}
}

func TestProbeAllRespectsLimit(t *testing.T) {
	t.Parallel()

	prober := &delayedProber{delay: 50 * time.Millisecond}
	ProbeAll(context.Background(), prober, testEnvs, makeProjects(12), 3)

	if peak := prober.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	if calls := prober.calls.Load(); calls != 12 {
		t.Errorf("calls = %d, want 12", calls)
	}
}

func TestZeroLimitUsesDefaultConcurrency(t *testing.T) {
	t.Parallel()

	prober := &delayedProber{delay: 50 * time.Millisecond}
	ProbeAll(context.Background(), prober, testEnvs, makeProjects(2*DefaultConcurrency), 0)

	if peak := prober.peak.Load(); peak > DefaultConcurrency {
		t.Errorf("peak concurrency = %d, want <= %d", peak, DefaultConcurrency)
	}
	if calls := prober.calls.Load(); calls != 2*DefaultConcurrency {
		t.Errorf("calls = %d, want %d", calls, 2*DefaultConcurrency)
	}
}

func TestProbeAllDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	projects := makeProjects(3)
	ProbeAll(context.Background(), &delayedProber{}, testEnvs, projects, 0)

	for _, p := range projects {
		if p.GitStatus != nil {
			t.Errorf("input project %q was modified", p.Name)
		}
	}
}

func TestProbeAllFailedProbe(t *testing.T) {
	t.Parallel()

	got := ProbeAll(context.Background(), nilProber{}, testEnvs, makeProjects(2), 2)
	for _, p := range got {
		if p.GitStatus != nil {
			t.Errorf("%q: GitStatus = %+v, want nil", p.Name, p.GitStatus)
		}
	}
}

func TestProbeAllCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := &delayedProber{delay: time.Second}
	got := ProbeAll(ctx, prober, testEnvs, makeProjects(5), 1)

	if calls := prober.calls.Load(); calls != 0 {
		t.Errorf("calls = %d, want 0 after cancellation", calls)
	}
	if len(got) != 5 {
		t.Errorf("got %d projects, want 5", len(got))
	}
}

func TestProbeAllEmpty(t *testing.T) {
	t.Parallel()

	if got := ProbeAll(context.Background(), nilProber{}, testEnvs, nil, 4); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSkipProbes(t *testing.T) {
	t.Parallel()

	projects := makeProjects(2)
	got := SkipProbes(projects)
	got[0].Name = "changed"
	if projects[0].Name == "changed" {
		t.Error("SkipProbes returned the input slice")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	native := []Project{
		{Name: "a", Env: env.Native, LastOpened: 10},
		{Name: "b", Env: env.Native, LastOpened: 30},
		{Name: "tie-native", Env: env.Native, LastOpened: 20},
	}
	bridged := []Project{
		{Name: "c", Env: env.Bridged, LastOpened: 0},
		{Name: "tie-bridged", Env: env.Bridged, LastOpened: 20},
		{Name: "d", Env: env.Bridged, LastOpened: 40},
	}

	got := Merge(native, bridged)

	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	want := []string{"d", "b", "tie-native", "tie-bridged", "a", "c"}
	if !slices.Equal(names, want) {
		t.Errorf("Merge() order = %v, want %v", names, want)
	}

	if native[0].Name != "a" || bridged[0].Name != "c" {
		t.Error("Merge modified its inputs")
	}

	// Merging the result again with nothing changes nothing
	again := Merge(got, nil)
	if !slices.Equal(again, got) {
		t.Errorf("Merge is not idempotent: %v vs %v", again, got)
	}
}

func TestMergeEmpty(t *testing.T) {
	t.Parallel()

	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	projects := []Project{
		{Name: "api", Env: env.Bridged},
		{Name: "web", Env: env.Native},
		{Name: "api", Env: env.Native},
	}

	got := Find(projects, "api")
	if len(got) != 2 {
		t.Fatalf("Find() returned %d projects, want 2", len(got))
	}
	if got[0].Env != env.Native || got[1].Env != env.Bridged {
		t.Errorf("Find() order = %v, %v, want native first", got[0].Env, got[1].Env)
	}
	if got := Find(projects, "missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}
}

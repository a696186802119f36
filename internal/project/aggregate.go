package project

import (
	"context"
	"slices"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/git"
)

// DefaultConcurrency bounds concurrent probes when no limit is configured.
const DefaultConcurrency = 8

// Prober reads the git status of a single project. *git.Client implements it.
type Prober interface {
	Probe(ctx context.Context, e env.Environment, path string) *git.Status
}

// Environments hands out the environment of a kind. *env.Resolver implements it.
type Environments interface {
	For(k env.Kind) env.Environment
}

// ProbeAll probes all projects concurrently, at most limit at a time, and
// returns new project values carrying the results in input order.
// A failed probe leaves GitStatus nil; once ctx is cancelled no further
// probes are started.
func ProbeAll(ctx context.Context, prober Prober, envs Environments, projects []Project, limit int) []Project {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]*git.Status, len(projects))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, p := range projects {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = prober.Probe(ctx, envs.For(p.Env), p.Path)
			return nil // Never fail, a missing status is a valid result
		})
	}

	_ = g.Wait()

	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.WithStatus(results[i])
	}
	return out
}

type countingProber struct {
	Prober
	total  int
	done   atomic.Int32
	notify func(done, total int)
}

func (c *countingProber) Probe(ctx context.Context, e env.Environment, path string) *git.Status {
	st := c.Prober.Probe(ctx, e, path)
	c.notify(int(c.done.Add(1)), c.total)
	return st
}

// SkipProbes returns the projects unchanged for callers that want instant
// results and request status later.
func SkipProbes(projects []Project) []Project {
	return slices.Clone(projects)
}

// Merge concatenates native and bridged projects and sorts them by
// LastOpened, newest first. Equal timestamps keep their input order, native
// before bridged. The inputs are not modified.
func Merge(native, bridged []Project) []Project {
	merged := make([]Project, 0, len(native)+len(bridged))
	merged = append(merged, native...)
	merged = append(merged, bridged...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastOpened > merged[j].LastOpened
	})
	return merged
}

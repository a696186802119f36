package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/ui"
	"github.com/raphi011/ketra/internal/ui/prompt"
)

// target is a resolved <project> argument.
type target struct {
	Name string
	Path string
	Env  env.Kind
}

// envFlag registers --env on c and returns the raw value pointer.
func envFlag(c *cobra.Command, usage string) *string {
	var value string
	c.Flags().StringVarP(&value, "env", "e", "", usage)
	_ = c.RegisterFlagCompletionFunc("env", completeEnv)
	return &value
}

// parseEnv parses an --env value. ok is false when the flag was not set.
func parseEnv(value string) (k env.Kind, ok bool, err error) {
	if value == "" {
		return env.Native, false, nil
	}
	k, err = env.ParseKind(value)
	if err != nil {
		return env.Native, false, err
	}
	return k, true, nil
}

// looksLikePath reports whether arg names a folder rather than a project.
func looksLikePath(arg string) bool {
	return arg == "." || arg == ".." ||
		strings.ContainsAny(arg, `/\`) ||
		filepath.IsAbs(arg)
}

// resolveProject turns a <project> argument into a path and environment.
// Paths are taken as is, the environment inferred from their shape unless
// --env is given. Names are matched against a fast listing: exact match
// first, then the best fuzzy match.
func resolveProject(ctx context.Context, arg, envValue string) (target, error) {
	return resolveTarget(ctx, arg, envValue, false)
}

// resolveExact is resolveProject without the fuzzy fallback, for commands
// that delete or publish.
func resolveExact(ctx context.Context, arg, envValue string) (target, error) {
	return resolveTarget(ctx, arg, envValue, true)
}

func resolveTarget(ctx context.Context, arg, envValue string, exact bool) (target, error) {
	a := appFromContext(ctx)
	res := a.svc.Resolver()

	k, forced, err := parseEnv(envValue)
	if err != nil {
		return target{}, err
	}

	if looksLikePath(arg) {
		path := arg
		if !forced {
			k = res.Infer(arg)
		}
		if k == env.Native {
			if path, err = filepath.Abs(arg); err != nil {
				return target{}, err
			}
		}
		return target{Name: res.For(k).Base(path), Path: path, Env: k}, nil
	}

	var candidates []project.Project
	if !forced || k == env.Native {
		candidates = append(candidates, a.svc.DiscoverFast(ctx)...)
	}
	if !forced || k == env.Bridged {
		candidates = append(candidates, a.svc.DiscoverBridgedOnly(ctx)...)
	}
	if len(candidates) == 0 {
		return target{}, fmt.Errorf("project %q not found: no projects in the ketra folder", arg)
	}

	matches := project.Find(candidates, arg)
	switch {
	case len(matches) == 1:
		return toTarget(matches[0]), nil
	case len(matches) > 1:
		return pickAmbiguous(arg, matches)
	}

	best, ok := fuzzyMatch(candidates, arg)
	if !ok {
		return target{}, fmt.Errorf("project %q not found", arg)
	}
	if exact {
		return target{}, fmt.Errorf("project %q not found (did you mean %q?)", arg, best.Name)
	}
	log.FromContext(ctx).Printf("Using %s (%s)\n", best.Name, best.Env)
	return toTarget(best), nil
}

func toTarget(p project.Project) target {
	return target{Name: p.Name, Path: p.Path, Env: p.Env}
}

// pickAmbiguous asks which of several same-named projects to use.
func pickAmbiguous(name string, matches []project.Project) (target, error) {
	if !ui.Interactive() {
		return target{}, fmt.Errorf("project %q exists in more than one environment: use --env", name)
	}

	options := make([]prompt.Option, len(matches))
	for i, p := range matches {
		options[i] = prompt.Option{Label: fmt.Sprintf("%s (%s)", p.Name, p.Env), Description: p.Path}
	}
	res, err := prompt.Select("Which "+name+"?", options)
	if err != nil {
		return target{}, err
	}
	if res.Cancelled {
		return target{}, fmt.Errorf("cancelled")
	}
	return toTarget(matches[res.Index]), nil
}

// projectNames implements fuzzy.Source over project names.
type projectNames []project.Project

func (p projectNames) String(i int) string { return p[i].Name }
func (p projectNames) Len() int            { return len(p) }

// fuzzyMatch returns the best fuzzy match for query. Ties keep listing
// order, so the most recently opened project wins.
func fuzzyMatch(projects []project.Project, query string) (project.Project, bool) {
	matches := fuzzy.FindFrom(query, projectNames(projects))
	if len(matches) == 0 {
		return project.Project{}, false
	}
	return projects[matches[0].Index], true
}

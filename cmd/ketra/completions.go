package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/template"
)

// completionTimeout bounds completion lookups so a slow bridge never
// blocks the shell.
const completionTimeout = 3 * time.Second

func completionContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, completionTimeout)
}

// completeProjects completes the first argument with project names of both
// environments.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := completionContext(cmd)
	defer cancel()

	svc := appFromContext(ctx).svc
	projects := append(svc.DiscoverFast(ctx), svc.DiscoverBridgedOnly(ctx)...)

	return filterProjects(projects, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterProjects(projects []project.Project, prefix string) []string {
	seen := make(map[string]bool)
	var matches []string
	for _, p := range projects {
		if seen[p.Name] || !strings.HasPrefix(p.Name, prefix) {
			continue
		}
		seen[p.Name] = true
		matches = append(matches, p.Name+"\t"+p.Env.String())
	}
	return matches
}

// completeProjectBranches completes a project, then its branches.
func completeProjectBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeProjects(cmd, args, toComplete)
	}
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := completionContext(cmd)
	defer cancel()

	envValue, _ := cmd.Flags().GetString("env")
	t, err := resolveProject(ctx, args[0], envValue)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	branches, err := appFromContext(ctx).svc.ListBranches(ctx, t.Env, t.Path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, toComplete) {
			matches = append(matches, b)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	all, err := template.All()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var matches []string
	for _, t := range all {
		if strings.HasPrefix(t.Name, toComplete) {
			matches = append(matches, t.Name+"\t"+t.Description)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func completeEnv(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, k := range env.Kinds {
		if strings.HasPrefix(k.String(), toComplete) {
			matches = append(matches, k.String())
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

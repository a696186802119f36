package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/ui/progress"
	"github.com/raphi011/ketra/internal/ui/static"
)

func newListCmd() *cobra.Command {
	var (
		jsonOutput  bool
		fast        bool
		bridgedOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List projects",
		Aliases: []string{"ls"},
		GroupID: GroupProjects,
		Args:    cobra.NoArgs,
		Long: `List projects of both environments with their git state.

Projects are sorted by last opened, most recent first. WSL projects carry
no timestamp and are listed after host projects.

--fast lists host projects only and skips git status.
--bridged lists WSL projects only and skips git status.`,
		Example: `  ketra list            # All projects with git status
  ketra list --fast     # Host projects, no git status
  ketra list --bridged  # WSL projects, no git status
  ketra list --json     # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			svc := appFromContext(ctx).svc

			var projects []project.Project
			switch {
			case fast:
				projects = svc.DiscoverFast(ctx)
			case bridgedOnly:
				if !svc.Resolver().BridgeEnabled() {
					l.Printf("WSL is disabled, set bridge.enabled in the config to use it\n")
				}
				projects = svc.DiscoverBridgedOnly(ctx)
			default:
				ind := progress.New("Scanning projects")
				if !jsonOutput {
					ind.Start()
				}
				svc.SetProbeProgress(func(done, total int) {
					ind.SetProgress(done, total)
				})
				ind.SetMessage("Reading git status")
				projects = svc.DiscoverFull(ctx)
				ind.Stop()
			}

			l.Debug("listed projects", "count", len(projects))

			if jsonOutput {
				if projects == nil {
					projects = []project.Project{}
				}
				return out.JSON(projects)
			}

			if len(projects) == 0 {
				if root, err := svc.Resolver().Resolve(ctx, env.Native); err == nil {
					l.Printf("No projects found in %s\n", root)
				}
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, static.ProjectTableRow(p))
			}
			out.Print(static.RenderTable(static.ProjectHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&fast, "fast", false, "Host projects only, without git status")
	cmd.Flags().BoolVar(&bridgedOnly, "bridged", false, "WSL projects only, without git status")
	cmd.MarkFlagsMutuallyExclusive("fast", "bridged")

	return cmd
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               "status <project>",
		Short:             "Show the git state of a project",
		GroupID:           GroupProjects,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Show branch, uncommitted files and commits ahead/behind of a project.

<project> is a project name or a path. The environment of a path is
inferred from its shape.`,
		Example: `  ketra status api
  ketra status /home/me/ketra/api
  ketra status . --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			svc := appFromContext(ctx).svc

			t, err := resolveProject(ctx, args[0], "")
			if err != nil {
				return err
			}

			st := svc.StatusIn(ctx, t.Env, t.Path)
			if jsonOutput {
				return out.JSON(st)
			}
			if st == nil {
				out.Printf("%s is not a git repository\n", t.Path)
				return nil
			}

			branch := st.Branch
			if branch == "" {
				branch = "(detached)"
			}
			out.Printf("%s  %s  %s\n", t.Name, branch, static.StatusCell(st))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/forge"
	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/ui/static"
)

func newRootDirCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "root",
		Short:   "Print the ketra folder of an environment",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Example: `  cd "$(ketra root)"
  ketra root -e bridged --copy`,
	}
	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the path to the clipboard")
	envValue := envFlag(cmd, "Environment (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		k, _, err := parseEnv(*envValue)
		if err != nil {
			return err
		}

		root, err := appFromContext(ctx).svc.Resolver().Resolve(ctx, k)
		if err != nil {
			return err
		}
		return printPath(cmd, root, copyToClipboard)
	}

	return cmd
}

func newPathCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:               "path <project>",
		Short:             "Print the path of a project",
		GroupID:           GroupUtility,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Example: `  cd "$(ketra path api)"
  ketra path api --copy`,
	}
	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the path to the clipboard")
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		t, err := resolveProject(cmd.Context(), args[0], *envValue)
		if err != nil {
			return err
		}
		return printPath(cmd, t.Path, copyToClipboard)
	}

	return cmd
}

// printPath prints path and optionally copies it to the clipboard.
func printPath(cmd *cobra.Command, path string, copyToClipboard bool) error {
	ctx := cmd.Context()
	output.FromContext(ctx).Println(path)

	if copyToClipboard {
		if err := clipboard.WriteAll(path); err != nil {
			log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
		}
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Print the host project list whenever it changes",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Watch the host ketra folder and print the project list on start and
after every change. With --json each listing is one line of JSON.
Stop with Ctrl+C.`,
		Example: `  ketra watch
  ketra watch --json | jq -c 'map(.name)'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return appFromContext(ctx).svc.Watch(ctx, func(projects []project.Project) {
				if jsonOutput {
					if projects == nil {
						projects = []project.Project{}
					}
					if err := out.JSONLine(projects); err != nil {
						log.FromContext(ctx).Warn("write failed", "error", err)
					}
					return
				}

				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, static.ProjectTableRow(p))
				}
				out.Printf("%s  %d projects\n", time.Now().Format(time.TimeOnly), len(projects))
				out.Print(static.RenderTable(static.ProjectHeaders, rows))
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON lines")

	return cmd
}

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "auth",
		Short:   "Check GitHub authentication",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Check that a GitHub token is available and valid.

The token is read from $GITHUB_TOKEN (see github.token_env) and falls back
to "gh auth token".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			login, err := appFromContext(ctx).hub.Status(ctx)
			if err != nil {
				var apiErr *forge.APIError
				if errors.As(err, &apiErr) {
					return fmt.Errorf("GitHub rejected the token: %w", err)
				}
				return err
			}
			output.FromContext(ctx).Printf("Logged in to GitHub as %s\n", login)
			return nil
		},
	}
}

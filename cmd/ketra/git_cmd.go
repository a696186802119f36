package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/git"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/ui"
	"github.com/raphi011/ketra/internal/ui/prompt"
	"github.com/raphi011/ketra/internal/ui/static"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pull <project>",
		Short:             "Pull the current branch",
		GroupID:           GroupGit,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Example:           `  ketra pull api`,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		result, err := withSpinner("Pulling "+t.Name, func() (string, error) {
			return svc.Pull(ctx, t.Env, t.Path)
		})
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	return cmd
}

func newPushCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:               "push <project>",
		Short:             "Commit all changes and push",
		GroupID:           GroupGit,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Stage and commit all changes with the given message, then push.

A repository without a remote gets a private GitHub repository on its first
push. A branch without upstream is pushed with upstream tracking.
Without -m the message is asked for when there are changes to commit.`,
		Example: `  ketra push api -m "Fix login"
  ketra push .`,
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		t, err := resolveExact(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		if message == "" {
			if st := svc.StatusIn(ctx, t.Env, t.Path); st != nil && !st.IsClean {
				if !ui.Interactive() {
					return fmt.Errorf("%s has uncommitted changes: a commit message is required (-m)", t.Name)
				}
				res, err := prompt.TextInput("Commit message", "Describe your changes", true)
				if err != nil {
					return err
				}
				if res.Cancelled {
					return fmt.Errorf("cancelled")
				}
				message = res.Value
			}
		}

		result, err := withSpinner("Pushing "+t.Name, func() (string, error) {
			return svc.Push(ctx, t.Env, t.Path, message)
		})
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	return cmd
}

func newLogCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:               "log <project>",
		Short:             "Show the commit history",
		GroupID:           GroupGit,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Example: `  ketra log api
  ketra log api -n 10 --json`,
	}
	cmd.Flags().IntVarP(&limit, "number", "n", git.DefaultLogLimit, "Number of commits to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := output.FromContext(ctx)
		svc := appFromContext(ctx).svc

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		commits, err := svc.CommitHistory(ctx, t.Env, t.Path, limit)
		if err != nil {
			return describe(err)
		}

		if jsonOutput {
			if commits == nil {
				commits = []git.Commit{}
			}
			return out.JSON(commits)
		}

		rows := make([][]string, 0, len(commits))
		for _, c := range commits {
			rows = append(rows, static.CommitTableRow(c))
		}
		out.Print(static.RenderTable(static.CommitHeaders, rows))
		return nil
	}

	return cmd
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "diff <project>",
		Short:             "Show uncommitted changes",
		GroupID:           GroupGit,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Example:           `  ketra diff api | less`,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		diff, err := svc.Diff(ctx, t.Env, t.Path)
		if err != nil {
			return describe(err)
		}
		output.FromContext(ctx).Print(diff)
		return nil
	}

	return cmd
}

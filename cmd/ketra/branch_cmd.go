package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/output"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Short:   "List, switch and create branches",
		Aliases: []string{"br"},
		GroupID: GroupGit,
		Example: `  ketra branch list api
  ketra branch switch api feature-x
  ketra branch create api feature-y`,
	}

	cmd.AddCommand(newBranchListCmd())
	cmd.AddCommand(newBranchSwitchCmd())
	cmd.AddCommand(newBranchCreateCmd())

	return cmd
}

func newBranchListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               "list <project>",
		Short:             "List local and remote branches",
		Aliases:           []string{"ls"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := output.FromContext(ctx)

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		branches, err := appFromContext(ctx).svc.ListBranches(ctx, t.Env, t.Path)
		if err != nil {
			return describe(err)
		}

		if jsonOutput {
			if branches == nil {
				branches = []string{}
			}
			return out.JSON(branches)
		}
		for _, b := range branches {
			out.Println(b)
		}
		return nil
	}

	return cmd
}

func newBranchSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "switch <project> <branch>",
		Short:             "Check out an existing branch",
		Aliases:           []string{"sw"},
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeProjectBranches,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		result, err := appFromContext(ctx).svc.SwitchBranch(ctx, t.Env, t.Path, args[1])
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "create <project> <branch>",
		Short:             "Create a branch from HEAD and check it out",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeProjects,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		result, err := appFromContext(ctx).svc.CreateBranch(ctx, t.Env, t.Path, args[1])
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	return cmd
}

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "stash <project>",
		Short:             "Stash local changes",
		GroupID:           GroupGit,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Example: `  ketra stash api
  ketra stash pop api`,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		result, err := appFromContext(ctx).svc.Stash(ctx, t.Env, t.Path)
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	cmd.AddCommand(newStashPopCmd())

	return cmd
}

func newStashPopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pop <project>",
		Short:             "Apply and drop the most recent stash",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
	}
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveProject(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		result, err := appFromContext(ctx).svc.StashPop(ctx, t.Env, t.Path)
		if err != nil {
			return describe(err)
		}
		printResult(ctx, result)
		return nil
	}

	return cmd
}

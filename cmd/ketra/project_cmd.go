package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/template"
	"github.com/raphi011/ketra/internal/ui"
	"github.com/raphi011/ketra/internal/ui/prompt"
)

func newNewCmd() *cobra.Command {
	var (
		tmplName    string
		github      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a project from a template",
		Long: `Create a project folder, scaffold it from a template and commit it.

With --github a private GitHub repository is created and the initial commit
pushed. Templates: ` + strings.Join(template.Names(), ", ") + `.`,
		GroupID: GroupProjects,
		Args:    cobra.ExactArgs(1),
		Example: `  ketra new notes
  ketra new api -t go --github
  ketra new site -e bridged -t nextjs
  ketra new tool -i             # pick the template interactively`,
	}
	cmd.Flags().StringVarP(&tmplName, "template", "t", template.Default, "Project template")
	cmd.Flags().BoolVar(&github, "github", false, "Create a GitHub repository and push")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the template interactively")
	_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates)
	envValue := envFlag(cmd, "Environment to create the project in (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		k, _, err := parseEnv(*envValue)
		if err != nil {
			return err
		}

		if interactive {
			if tmplName, err = pickTemplate(); err != nil {
				return err
			}
		}

		dir, err := withSpinner("Creating "+args[0], func() (string, error) {
			return svc.Create(ctx, k, args[0], project.CreateOptions{Template: tmplName, Publish: github})
		})
		if err != nil {
			return describe(err)
		}
		output.FromContext(ctx).Println(dir)
		return nil
	}

	return cmd
}

// pickTemplate asks for a template.
func pickTemplate() (string, error) {
	if !ui.Interactive() {
		return "", fmt.Errorf("--interactive requires a terminal")
	}
	all, err := template.All()
	if err != nil {
		return "", err
	}

	options := make([]prompt.Option, len(all))
	for i, t := range all {
		options[i] = prompt.Option{Label: t.Name, Description: t.Description}
	}
	res, err := prompt.Select("Template", options)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", fmt.Errorf("cancelled")
	}
	return res.Value, nil
}

func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clone <url>",
		Short:   "Clone a repository into the ketra folder",
		GroupID: GroupProjects,
		Args:    cobra.ExactArgs(1),
		Example: `  ketra clone https://github.com/org/api.git
  ketra clone git@github.com:org/api.git -e bridged`,
	}
	envValue := envFlag(cmd, "Environment to clone into (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		k, _, err := parseEnv(*envValue)
		if err != nil {
			return err
		}

		dir, err := withSpinner("Cloning "+args[0], func() (string, error) {
			return svc.Clone(ctx, k, args[0])
		})
		if err != nil {
			return describe(err)
		}
		output.FromContext(ctx).Println(dir)
		return nil
	}

	return cmd
}

func newPasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "paste [folder]",
		Short:   "Copy a folder into the ketra folder",
		GroupID: GroupProjects,
		Args:    cobra.MaximumNArgs(1),
		Long: `Copy a host folder into the ketra folder of an environment.

Without an argument the folder path is read from the clipboard.`,
		Example: `  ketra paste ~/Downloads/prototype
  ketra paste -e bridged         # path from clipboard, into WSL`,
	}
	envValue := envFlag(cmd, "Environment to copy into (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		k, _, err := parseEnv(*envValue)
		if err != nil {
			return err
		}

		var source string
		if len(args) == 1 {
			source = args[0]
		} else {
			text, err := clipboard.ReadAll()
			if err != nil {
				return fmt.Errorf("failed to read clipboard: %w", err)
			}
			source = strings.Trim(strings.TrimSpace(text), `"`)
			if source == "" {
				return fmt.Errorf("clipboard is empty: copy a folder path or pass it as argument")
			}
			log.FromContext(ctx).Debug("pasting from clipboard", "source", source)
		}

		dir, err := svc.Paste(ctx, k, source)
		if err != nil {
			return err
		}
		output.FromContext(ctx).Println(dir)
		return nil
	}

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var (
		yes        bool
		keepRemote bool
	)

	cmd := &cobra.Command{
		Use:               "delete <project>",
		Short:             "Delete a project and its GitHub repository",
		Aliases:           []string{"rm"},
		GroupID:           GroupProjects,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Delete a project folder. The GitHub repository of the same name is
deleted first unless --keep-remote is given; a missing repository or token
only produces a warning.`,
		Example: `  ketra delete old-prototype
  ketra delete api --keep-remote --yes`,
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&keepRemote, "keep-remote", false, "Do not delete the GitHub repository")
	envValue := envFlag(cmd, "Environment of the project (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := appFromContext(ctx).svc

		t, err := resolveExact(ctx, args[0], *envValue)
		if err != nil {
			return err
		}

		if !yes {
			if !ui.Interactive() {
				return fmt.Errorf("refusing to delete %s without confirmation: use --yes", t.Path)
			}
			question := fmt.Sprintf("Delete %s?", t.Path)
			if !keepRemote {
				question = fmt.Sprintf("Delete %s and the GitHub repository %q?", t.Path, t.Name)
			}
			res, err := prompt.Confirm(question)
			if err != nil {
				return err
			}
			if !res.Confirmed {
				log.FromContext(ctx).Printf("Aborted\n")
				return nil
			}
		}

		remote := t.Name
		if keepRemote {
			remote = ""
		}
		if err := svc.Delete(ctx, t.Path, remote); err != nil {
			return err
		}
		log.FromContext(ctx).Printf("Deleted %s\n", t.Path)
		return nil
	}

	return cmd
}

func newExistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exists <name>",
		Short:   "Check whether a project exists",
		GroupID: GroupProjects,
		Args:    cobra.ExactArgs(1),
		Long: `Print true or false depending on whether <name> exists in the ketra
folder of the environment. Exits with status 1 when it does not.`,
		Example: `  ketra exists api && echo taken`,
	}
	envValue := envFlag(cmd, "Environment to check (native or bridged)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		k, _, err := parseEnv(*envValue)
		if err != nil {
			return err
		}

		ok, err := appFromContext(ctx).svc.Exists(ctx, k, args[0])
		if err != nil {
			return err
		}
		output.FromContext(ctx).Println(ok)
		if !ok {
			return errSilentExit
		}
		return nil
	}

	return cmd
}

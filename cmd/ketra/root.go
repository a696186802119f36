package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/config"
	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/forge"
	"github.com/raphi011/ketra/internal/git"
	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/ui"
	"github.com/raphi011/ketra/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupProjects = "projects"
	GroupGit      = "git"
	GroupUtility  = "utility"
	GroupConfig   = "config"
)

// errSilentExit makes the process exit with status 1 without printing.
var errSilentExit = errors.New("exit status 1")

// skipGitCheck lists commands that work without git installed.
var skipGitCheck = map[string]bool{
	"completion": true, "__complete": true, "help": true,
	"config": true, "init": true, "show": true,
	"auth": true, "root": true, "path": true, "exists": true,
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var verbose, quiet bool

	rootCmd := &cobra.Command{
		Use:   "ketra",
		Short: "Project launcher for native and WSL environments",
		Long: `ketra finds the projects in your ketra folder on the host and inside WSL,
shows their git state and runs everyday git operations on them.

Projects live directly under <home>/ketra in each environment (configurable).
Paths under /home/ or /mnt/ belong to WSL, everything else to the host.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if err := setup(c, verbose, quiet); err != nil {
				return err
			}
			if skipGitCheck[c.Name()] {
				return nil
			}
			return git.CheckGit()
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			_ = log.FromContext(c.Context()).Close()
		},
		// Run is not set - shows help when no subcommand provided
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupProjects, Title: "Project Commands:"},
		&cobra.Group{ID: GroupGit, Title: "Git Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Project commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newPasteCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newExistsCmd())

	// Git commands
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newStashCmd())

	// Utility commands
	rootCmd.AddCommand(newRootDirCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAuthCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setup attaches logger, printer and services to the command context.
func setup(c *cobra.Command, verbose, quiet bool) error {
	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	ctx := c.Context()
	cfg := config.FromContext(ctx)

	logger := log.New(c.ErrOrStderr(), verbose, quiet)
	if err := logger.WithFile(log.FileConfig{Path: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		logger.Warn("file logging disabled", "error", err)
	}
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, c.OutOrStdout())

	if ui.IsTerminal(os.Stderr) {
		styles.Init(cfg.Theme)
	} else {
		styles.SetNerdfont(cfg.Theme.Nerdfont)
	}

	ctx = withApp(ctx, newApp(cfg))
	c.SetContext(ctx)
	return nil
}

// app holds the services shared by all commands.
type app struct {
	svc *project.Service
	hub *forge.GitHub
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// appFromContext returns the services set up for the running command.
func appFromContext(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	return newApp(config.FromContext(ctx))
}

// newApp wires environments, git client and hosting from cfg.
func newApp(cfg *config.Config) *app {
	res := env.FromConfig(*cfg)

	token := forge.DefaultToken(cfg.GitHub.TokenEnv, cmd.Exec{Timeout: time.Duration(cfg.ProbeTimeout)})
	hub := forge.NewGitHub(cfg.GitHub.APIURL, token)

	client := &git.Client{
		Runner:        cmd.Exec{Timeout: time.Duration(cfg.CommandTimeout)},
		Hosting:       hub,
		DefaultBranch: cfg.DefaultBranch,
		ProbeTimeout:  time.Duration(cfg.ProbeTimeout),
	}

	svc := project.NewService(res, client, hub, project.Options{
		Concurrency:   cfg.Concurrency,
		WatchDebounce: time.Duration(cfg.Watch.Debounce),
	})
	return &app{svc: svc, hub: hub}
}

// Execute loads the config and runs the command tree.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = config.WithConfig(ctx, &loadedCfg)

	err = newRootCmd().ExecuteContext(ctx)
	cancel()

	if errors.Is(err, errSilentExit) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ketra -h' for help")
		os.Exit(1)
	}
}

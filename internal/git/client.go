package git

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/format"
)

// DefaultLogLimit is the number of commits returned when no limit is given.
const DefaultLogLimit = 50

var (
	// ErrNoHosting indicates a push needed a new remote but no hosting service is configured.
	ErrNoHosting = errors.New("no hosting service configured: cannot create a remote repository")
	// ErrProjectExists indicates the clone or create destination already exists.
	ErrProjectExists = errors.New("project already exists")
)

// RepoCreator creates remote repositories. Keeps the git package independent
// of the forge package.
type RepoCreator interface {
	CreateRepo(ctx context.Context, name string) (cloneURL string, err error)
}

// Client runs git operations against projects in any environment.
type Client struct {
	Runner  cmd.Runner
	Hosting RepoCreator
	// DefaultBranch is used for first pushes and new repositories.
	DefaultBranch string
	// ProbeTimeout bounds each status probe command. Zero leaves it to the runner.
	ProbeTimeout time.Duration
}

// Commit is one entry of the commit history.
type Commit struct {
	Hash      string `json:"hash"`
	Author    string `json:"author"`
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

func (c *Client) defaultBranch() string {
	if c.DefaultBranch == "" {
		return "main"
	}
	return c.DefaultBranch
}

// run executes op in dir. Only spawn failures and timeouts are errors;
// the outcome of a failed command is returned for the caller to inspect.
func (c *Client) run(ctx context.Context, e env.Environment, dir string, op Op, p Params) (cmd.Outcome, error) {
	o, err := c.Runner.Run(ctx, e.Git(dir, Args(op, p)...))
	if err != nil {
		return o, runFailure(op, err)
	}
	return o, nil
}

// exec executes op in dir and classifies a non-zero exit.
func (c *Client) exec(ctx context.Context, e env.Environment, dir string, op Op, p Params) (cmd.Outcome, error) {
	o, err := c.run(ctx, e, dir, op, p)
	if err != nil {
		return o, err
	}
	if !o.Succeeded() {
		return o, failure(op, o)
	}
	return o, nil
}

// Pull runs "git pull" and returns its output.
func (c *Client) Pull(ctx context.Context, e env.Environment, path string) (string, error) {
	o, err := c.exec(ctx, e, path, OpPull, Params{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(o.Stdout), nil
}

// Push commits all local changes with message and pushes them.
//
// A project without an origin remote gets a new repository on the hosting
// service, named after the project folder, and is pushed with the upstream
// set to the default branch. Nothing is committed when the tree is clean.
func (c *Client) Push(ctx context.Context, e env.Environment, path, message string) (string, error) {
	o, err := c.run(ctx, e, path, OpRemoteURL, Params{Remote: "origin"})
	if err != nil {
		return "", err
	}
	hasRemote := o.Succeeded()
	if !hasRemote && !missingRemote(o) {
		return "", failure(OpRemoteURL, o)
	}

	if !hasRemote {
		if c.Hosting == nil {
			return "", ErrNoHosting
		}

		cloneURL, err := c.Hosting.CreateRepo(ctx, e.Base(path))
		if err != nil {
			return "", fmt.Errorf("failed to create remote repository: %w", err)
		}

		if _, err := c.exec(ctx, e, path, OpRemoteAdd, Params{Remote: "origin", URL: cloneURL}); err != nil {
			return "", err
		}

		// Fails harmlessly when the branch already has the name
		_, _ = c.run(ctx, e, path, OpRenameBranch, Params{Branch: c.defaultBranch()})
	}

	if _, err := c.exec(ctx, e, path, OpAddAll, Params{}); err != nil {
		return "", err
	}

	o, err = c.exec(ctx, e, path, OpStatus, Params{})
	if err != nil {
		return "", err
	}
	if CountStatusLines(o.Stdout) > 0 {
		if _, err := c.exec(ctx, e, path, OpCommit, Params{Message: message}); err != nil {
			return "", err
		}
	}

	op := OpPush
	if !hasRemote {
		op = OpPushUpstream
	}
	o, err = c.exec(ctx, e, path, op, Params{Remote: "origin", Branch: c.defaultBranch()})
	if err != nil {
		return "", err
	}

	// git push reports progress on stderr
	return strings.TrimSpace(o.Combined()), nil
}

// Clone clones url into root and returns the repository name, which is also
// the name of the new project folder.
func (c *Client) Clone(ctx context.Context, e env.Environment, root, url string) (string, error) {
	name := format.RepoNameFromURL(url)
	if name == "" {
		return "", fmt.Errorf("invalid repository URL: %q", url)
	}

	if e.Exists(ctx, e.Join(root, name)) {
		return "", fmt.Errorf("%w: %s", ErrProjectExists, e.Join(root, name))
	}

	if _, err := c.exec(ctx, e, root, OpClone, Params{URL: url}); err != nil {
		return "", err
	}
	return name, nil
}

// ListBranches returns local and remote branch names without markers or
// remote prefixes. Each name appears once, in order of first occurrence.
func (c *Client) ListBranches(ctx context.Context, e env.Environment, path string) ([]string, error) {
	o, err := c.exec(ctx, e, path, OpBranchList, Params{})
	if err != nil {
		return nil, err
	}
	return ParseBranches(o.Stdout), nil
}

// SwitchBranch checks out branch.
func (c *Client) SwitchBranch(ctx context.Context, e env.Environment, path, branch string) (string, error) {
	if err := validateBranchName(branch); err != nil {
		return "", err
	}
	if _, err := c.exec(ctx, e, path, OpSwitch, Params{Branch: branch}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Switched to branch '%s'", branch), nil
}

// CreateBranch creates branch from HEAD and checks it out.
func (c *Client) CreateBranch(ctx context.Context, e env.Environment, path, branch string) (string, error) {
	if err := validateBranchName(branch); err != nil {
		return "", err
	}
	if _, err := c.exec(ctx, e, path, OpCreateBranch, Params{Branch: branch}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Created and switched to branch '%s'", branch), nil
}

// CommitHistory returns up to limit commits, newest first.
// A limit <= 0 uses DefaultLogLimit.
func (c *Client) CommitHistory(ctx context.Context, e env.Environment, path string, limit int) ([]Commit, error) {
	o, err := c.exec(ctx, e, path, OpLog, Params{Limit: limit})
	if err != nil {
		return nil, err
	}
	return ParseLog(o.Stdout), nil
}

// Diff returns the diff of the working tree against HEAD.
func (c *Client) Diff(ctx context.Context, e env.Environment, path string) (string, error) {
	o, err := c.exec(ctx, e, path, OpDiff, Params{})
	if err != nil {
		return "", err
	}
	return o.Stdout, nil
}

// Stash stashes local changes.
func (c *Client) Stash(ctx context.Context, e env.Environment, path string) (string, error) {
	o, err := c.exec(ctx, e, path, OpStash, Params{})
	if err != nil {
		return "", err
	}
	if Classify(o) == KindNoLocalChanges {
		return "No changes to stash", nil
	}
	return "Changes stashed successfully", nil
}

// StashPop applies and drops the most recent stash entry.
func (c *Client) StashPop(ctx context.Context, e env.Environment, path string) (string, error) {
	if _, err := c.exec(ctx, e, path, OpStashPop, Params{}); err != nil {
		return "", err
	}
	return "Stash applied successfully", nil
}

// missingRemote reports whether a failed "remote get-url" only means the
// remote is not configured.
func missingRemote(o cmd.Outcome) bool {
	return strings.Contains(o.Combined(), "No such remote")
}

// Init initializes a repository on the default branch and commits
// everything in path with message. A repository created by a template's
// own tooling is kept, and nothing is committed when the tree is clean.
func (c *Client) Init(ctx context.Context, e env.Environment, path, message string) error {
	if !e.IsRepo(ctx, path) {
		if _, err := c.exec(ctx, e, path, OpInit, Params{Branch: c.defaultBranch()}); err != nil {
			return err
		}
	}
	if _, err := c.exec(ctx, e, path, OpAddAll, Params{}); err != nil {
		return err
	}

	o, err := c.exec(ctx, e, path, OpStatus, Params{})
	if err != nil {
		return err
	}
	if CountStatusLines(o.Stdout) == 0 {
		return nil
	}
	_, err = c.exec(ctx, e, path, OpCommit, Params{Message: message})
	return err
}

// Publish renames the current branch to the default branch, creates a
// hosting repository named after the project, adds it as origin and pushes
// with upstream tracking.
func (c *Client) Publish(ctx context.Context, e env.Environment, path string) error {
	if c.Hosting == nil {
		return ErrNoHosting
	}

	// Template tooling may have initialized the repository on another branch
	if _, err := c.exec(ctx, e, path, OpRenameBranch, Params{Branch: c.defaultBranch()}); err != nil {
		return err
	}

	cloneURL, err := c.Hosting.CreateRepo(ctx, e.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create remote repository: %w", err)
	}
	if _, err := c.exec(ctx, e, path, OpRemoteAdd, Params{Remote: "origin", URL: cloneURL}); err != nil {
		return err
	}
	_, err = c.exec(ctx, e, path, OpPushUpstream, Params{Remote: "origin", Branch: c.defaultBranch()})
	return err
}

// ParseBranches parses "git branch --all" output.
func ParseBranches(out string) []string {
	var branches []string
	seen := make(map[string]bool)

	for line := range strings.SplitSeq(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.Contains(name, "HEAD ->") {
			continue
		}
		// "*" marks the current branch, "+" a branch checked out in another worktree
		name = strings.TrimPrefix(name, "* ")
		name = strings.TrimPrefix(name, "+ ")
		if rest, ok := strings.CutPrefix(name, "remotes/"); ok {
			if _, branch, ok := strings.Cut(rest, "/"); ok {
				name = branch
			}
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, name)
	}

	return branches
}

// ParseLog parses output of the log format used by OpLog. Lines that don't
// split into five fields are skipped; an invalid timestamp becomes 0.
func ParseLog(out string) []Commit {
	var commits []Commit
	for line := range strings.SplitSeq(out, "\n") {
		parts := strings.SplitN(line, "\x1f", 5)
		if len(parts) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			ts = 0
		}
		commits = append(commits, Commit{
			Hash:      parts[0],
			Author:    parts[1],
			Email:     parts[2],
			Timestamp: ts,
			Message:   parts[4],
		})
	}
	return commits
}

func validateBranchName(branch string) error {
	if strings.TrimSpace(branch) == "" {
		return errors.New("branch name is required")
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch name %q", branch)
	}
	return nil
}

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/forge"
	"github.com/raphi011/ketra/internal/format"
	"github.com/raphi011/ketra/internal/git"
	"github.com/raphi011/ketra/internal/log"
	"github.com/raphi011/ketra/internal/template"
)

// InitialCommitMessage is the message of the first commit of a new project.
const InitialCommitMessage = "Initial commit"

var (
	// ErrProjectNotFound indicates the project folder does not exist.
	ErrProjectNotFound = errors.New("project folder does not exist")
	// ErrProjectInUse indicates the project folder could not be removed because
	// another program holds files open.
	ErrProjectInUse = errors.New("Cannot delete project - please close any programs using this folder first")
	// ErrInvalidName indicates a project name that cannot be used as a folder name.
	ErrInvalidName = errors.New("invalid project name")
)

// Options tunes a Service.
type Options struct {
	// Concurrency bounds concurrent status probes. Zero uses DefaultConcurrency.
	Concurrency int
	// WatchDebounce delays re-scans after file system events.
	WatchDebounce time.Duration
	// Prober overrides the status prober. Defaults to the git client.
	Prober Prober
	// OnProbe is called after each finished probe with the number of
	// finished probes and the total. Called from probe goroutines.
	OnProbe func(done, total int)
}

// Service is the operation surface used by the CLI: discovery, status and
// git operations across both environments.
type Service struct {
	res     *env.Resolver
	git     *git.Client
	hosting forge.Hosting
	prober  Prober
	opts    Options
}

// NewService creates a service. hosting may be nil when no hosting service is
// configured.
func NewService(res *env.Resolver, client *git.Client, hosting forge.Hosting, opts Options) *Service {
	prober := opts.Prober
	if prober == nil {
		prober = client
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Service{
		res:     res,
		git:     client,
		hosting: hosting,
		prober:  prober,
		opts:    opts,
	}
}

// Resolver returns the environment resolver.
func (s *Service) Resolver() *env.Resolver {
	return s.res
}

// scan lists the projects of kind k. Failures are logged and yield nil.
func (s *Service) scan(ctx context.Context, k env.Kind) []Project {
	l := log.FromContext(ctx)
	e := s.res.For(k)

	root, err := e.Root(ctx)
	if err != nil {
		l.Warn("could not resolve projects root", "env", k, "error", err)
		return nil
	}

	entries, err := e.ListProjects(ctx, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Debug("projects root does not exist", "env", k, "root", root)
		} else {
			l.Warn("could not list projects", "env", k, "root", root, "error", err)
		}
		return nil
	}

	projects := make([]Project, 0, len(entries))
	for _, entry := range entries {
		projects = append(projects, FromEntry(k, entry))
	}
	return projects
}

// DiscoverFast lists native projects without probing, most recent first.
func (s *Service) DiscoverFast(ctx context.Context) []Project {
	return Merge(s.scan(ctx, env.Native), nil)
}

// DiscoverBridgedOnly lists bridged projects without probing, most recent
// first. Returns nil when the bridge is disabled.
func (s *Service) DiscoverBridgedOnly(ctx context.Context) []Project {
	if !s.res.BridgeEnabled() {
		return nil
	}
	return Merge(nil, s.scan(ctx, env.Bridged))
}

// DiscoverFull lists both environments concurrently, probes every project
// and merges the results. An unavailable bridge degrades to the native list.
func (s *Service) DiscoverFull(ctx context.Context) []Project {
	var native, bridged []Project

	var g errgroup.Group
	g.Go(func() error {
		native = s.scan(ctx, env.Native)
		return nil
	})
	if s.res.BridgeEnabled() {
		g.Go(func() error {
			bridged = s.scan(ctx, env.Bridged)
			return nil
		})
	}
	_ = g.Wait()

	all := s.ProbeAll(ctx, Merge(native, bridged))
	// Probing never reorders, the merge above already sorted
	return all
}

// ProbeAll probes projects with the configured concurrency limit.
func (s *Service) ProbeAll(ctx context.Context, projects []Project) []Project {
	var prober Prober = s.prober
	if s.opts.OnProbe != nil {
		prober = &countingProber{Prober: s.prober, total: len(projects), notify: s.opts.OnProbe}
	}
	return ProbeAll(ctx, prober, s.res, projects, s.opts.Concurrency)
}

// SetProbeProgress replaces the probe progress callback.
func (s *Service) SetProbeProgress(fn func(done, total int)) {
	s.opts.OnProbe = fn
}

// GetStatus probes the project at path. The environment is inferred from the
// path shape. Returns nil when path is not a repository.
func (s *Service) GetStatus(ctx context.Context, path string) *GitStatus {
	return s.prober.Probe(ctx, s.res.For(s.res.Infer(path)), path)
}

// StatusIn probes path in environment k, for callers that already resolved
// the environment.
func (s *Service) StatusIn(ctx context.Context, k env.Kind, path string) *GitStatus {
	return s.prober.Probe(ctx, s.res.For(k), path)
}

// Pull pulls the current branch.
func (s *Service) Pull(ctx context.Context, k env.Kind, path string) (string, error) {
	return s.git.Pull(ctx, s.res.For(k), path)
}

// Push commits all changes with message and pushes them.
func (s *Service) Push(ctx context.Context, k env.Kind, path, message string) (string, error) {
	return s.git.Push(ctx, s.res.For(k), path, message)
}

// Clone clones url into the root of environment k and returns the path of
// the new project.
func (s *Service) Clone(ctx context.Context, k env.Kind, url string) (string, error) {
	e := s.res.For(k)
	root, err := e.Root(ctx)
	if err != nil {
		return "", err
	}
	if err := e.MkdirAll(ctx, root); err != nil {
		return "", fmt.Errorf("failed to create projects root: %w", err)
	}

	name, err := s.git.Clone(ctx, e, root, url)
	if err != nil {
		return "", err
	}
	return e.Join(root, name), nil
}

// ListBranches lists local and remote branches.
func (s *Service) ListBranches(ctx context.Context, k env.Kind, path string) ([]string, error) {
	return s.git.ListBranches(ctx, s.res.For(k), path)
}

// SwitchBranch checks out an existing branch.
func (s *Service) SwitchBranch(ctx context.Context, k env.Kind, path, branch string) (string, error) {
	return s.git.SwitchBranch(ctx, s.res.For(k), path, branch)
}

// CreateBranch creates and checks out a new branch.
func (s *Service) CreateBranch(ctx context.Context, k env.Kind, path, branch string) (string, error) {
	return s.git.CreateBranch(ctx, s.res.For(k), path, branch)
}

// CommitHistory returns up to limit commits, newest first.
func (s *Service) CommitHistory(ctx context.Context, k env.Kind, path string, limit int) ([]git.Commit, error) {
	return s.git.CommitHistory(ctx, s.res.For(k), path, limit)
}

// Diff returns the working tree diff.
func (s *Service) Diff(ctx context.Context, k env.Kind, path string) (string, error) {
	return s.git.Diff(ctx, s.res.For(k), path)
}

// Stash stashes local changes.
func (s *Service) Stash(ctx context.Context, k env.Kind, path string) (string, error) {
	return s.git.Stash(ctx, s.res.For(k), path)
}

// StashPop applies the most recent stash.
func (s *Service) StashPop(ctx context.Context, k env.Kind, path string) (string, error) {
	return s.git.StashPop(ctx, s.res.For(k), path)
}

// Exists reports whether a project called name exists in environment k.
func (s *Service) Exists(ctx context.Context, k env.Kind, name string) (bool, error) {
	e := s.res.For(k)
	root, err := e.Root(ctx)
	if err != nil {
		return false, err
	}
	return e.Exists(ctx, e.Join(root, name)), nil
}

// Delete removes the hosting repository called name, then the project folder
// at path. Hosting failures are logged and never stop the local deletion.
func (s *Service) Delete(ctx context.Context, path, name string) error {
	l := log.FromContext(ctx)

	if s.hosting != nil && name != "" {
		if err := s.hosting.DeleteRepo(ctx, name); err != nil {
			l.Warn("could not delete remote repository", "name", name, "error", err)
		}
	}

	k := s.res.Infer(path)
	e := s.res.For(k)
	if !e.Exists(ctx, path) {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, path)
	}

	if err := e.Remove(ctx, path); err != nil {
		if k == env.Native && errors.Is(err, fs.ErrPermission) {
			return ErrProjectInUse
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// Paste copies the host directory source into the root of environment k and
// returns the new project path.
func (s *Service) Paste(ctx context.Context, k env.Kind, source string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("source does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source is not a directory: %s", source)
	}

	e := s.res.For(k)
	root, err := e.Root(ctx)
	if err != nil {
		return "", err
	}

	dst := e.Join(root, info.Name())
	if e.Exists(ctx, dst) {
		return "", fmt.Errorf("%w: %s", git.ErrProjectExists, dst)
	}
	if err := e.MkdirAll(ctx, root); err != nil {
		return "", fmt.Errorf("failed to create projects root: %w", err)
	}
	if err := e.CopyDir(ctx, source, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// CreateOptions configures Create.
type CreateOptions struct {
	// Template is the scaffolding template. Empty selects template.Default.
	Template string
	// Publish creates a hosting repository and pushes the initial commit.
	Publish bool
}

// Create scaffolds a new project called name in environment k, commits it
// and optionally publishes it. Returns the project path.
func (s *Service) Create(ctx context.Context, k env.Kind, name string, opts CreateOptions) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	tmpl, err := template.Get(opts.Template)
	if err != nil {
		return "", err
	}
	tmpl = tmpl.Render(name)

	e := s.res.For(k)
	root, err := e.Root(ctx)
	if err != nil {
		return "", err
	}

	dir := e.Join(root, name)
	if e.Exists(ctx, dir) {
		return "", fmt.Errorf("%w: %s", git.ErrProjectExists, dir)
	}
	if err := e.MkdirAll(ctx, dir); err != nil {
		return "", fmt.Errorf("failed to create project folder: %w", err)
	}

	if err := s.scaffold(ctx, e, dir, tmpl); err != nil {
		if rmErr := e.Remove(ctx, dir); rmErr != nil {
			log.FromContext(ctx).Warn("could not remove partial project", "path", dir, "error", rmErr)
			return "", fmt.Errorf("%w (partial project kept at %s)", err, dir)
		}
		return "", err
	}

	if opts.Publish {
		if err := s.git.Publish(ctx, e, dir); err != nil {
			return dir, fmt.Errorf("project created at %s but not published: %w", dir, err)
		}
	}
	return dir, nil
}

// scaffold runs the template's init commands, writes its files and
// commits the result.
func (s *Service) scaffold(ctx context.Context, e env.Environment, dir string, tmpl template.Template) error {
	for _, argv := range tmpl.Init {
		o, err := s.git.Runner.Run(ctx, e.Command(dir, argv[0], argv[1:]...))
		if err != nil {
			return fmt.Errorf("%s: %w", argv[0], err)
		}
		if !o.Succeeded() {
			return fmt.Errorf("%s failed: %s", strings.Join(argv, " "), strings.TrimSpace(o.Stderr))
		}
	}

	for _, f := range tmpl.Files {
		if d := path.Dir(f.Path); d != "." {
			if err := e.MkdirAll(ctx, e.Join(dir, d)); err != nil {
				return fmt.Errorf("failed to create %s: %w", d, err)
			}
		}
		if err := e.WriteFile(ctx, e.Join(dir, f.Path), []byte(f.Content)); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}

	return s.git.Init(ctx, e, dir, InitialCommitMessage)
}

// ValidateName checks that name can be used as a project folder name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if format.SanitizeForPath(name) != name {
		return fmt.Errorf("%w: %q contains path separators or reserved characters", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q must not start with '.' or '-'", ErrInvalidName, name)
	}
	return nil
}

// Find returns the projects called name, native first.
func Find(projects []Project, name string) []Project {
	var found []Project
	for _, p := range projects {
		if p.Name == name {
			found = append(found, p)
		}
	}
	slices.SortStableFunc(found, func(a, b Project) int {
		return int(a.Env) - int(b.Env)
	})
	return found
}

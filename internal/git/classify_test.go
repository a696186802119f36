package git

import (
	"errors"
	"fmt"
	"testing"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/env"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome cmd.Outcome
		want    Kind
	}{
		{"success", cmd.Outcome{Stdout: "Already up to date."}, KindNone},
		{"not a repo", cmd.Outcome{ExitCode: 128, Stderr: "fatal: not a git repository (or any of the parent directories): .git"}, KindNotARepository},
		{"missing dir", cmd.Outcome{ExitCode: 128, Stderr: "fatal: cannot change to '/x': No such file or directory"}, KindNotARepository},
		{"no tracking", cmd.Outcome{ExitCode: 1, Stderr: "There is no tracking information for the current branch."}, KindNoUpstreamBranch},
		{"no upstream", cmd.Outcome{ExitCode: 128, Stderr: "fatal: The current branch dev has no upstream branch."}, KindNoUpstreamBranch},
		{"permission", cmd.Outcome{ExitCode: 128, Stderr: "git@github.com: Permission denied (publickey)."}, KindPermissionDenied},
		{"403", cmd.Outcome{ExitCode: 128, Stderr: "The requested URL returned error: 403"}, KindPermissionDenied},
		{"denied to push", cmd.Outcome{ExitCode: 128, Stderr: "remote: Permission to a/b.git denied to push"}, KindPermissionDenied},
		{"no stash", cmd.Outcome{ExitCode: 1, Stderr: "No stash entries found."}, KindNoStashEntries},
		{"benign on success", cmd.Outcome{Stdout: "No local changes to save\n"}, KindNoLocalChanges},
		{"non-benign ignored on success", cmd.Outcome{Stdout: "Permission denied"}, KindNone},
		{"unknown", cmd.Outcome{ExitCode: 1, Stderr: "error: pathspec 'x' did not match"}, KindUnknown},
		{"stdout counts", cmd.Outcome{ExitCode: 1, Stdout: "not a git repository"}, KindNotARepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.outcome); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	t.Parallel()

	// Matches rules 1 and 3; the first rule wins.
	o := cmd.Outcome{ExitCode: 128, Stderr: "fatal: not a git repository\nPermission denied"}
	if got := Classify(o); got != KindNotARepository {
		t.Errorf("Classify() = %v, want %v", got, KindNotARepository)
	}

	// Matches rules 2 and 3.
	o = cmd.Outcome{ExitCode: 1, Stderr: "403 ... no upstream branch"}
	if got := Classify(o); got != KindNoUpstreamBranch {
		t.Errorf("Classify() = %v, want %v", got, KindNoUpstreamBranch)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindNotARepository, Op: OpPull}, "Not a git repository"},
		{&Error{Kind: KindNoUpstreamBranch, Op: OpPull}, "No remote tracking branch. This project may not have been pushed yet."},
		{&Error{Kind: KindPermissionDenied, Op: OpPush}, "Permission denied. You don't have push access to this repository. Fork it or create your own repo to push changes."},
		{&Error{Kind: KindNoStashEntries, Op: OpStashPop}, "No stashed changes to restore"},
		{&Error{Kind: KindUnknown, Op: OpPull, Raw: "boom"}, "Pull failed: boom"},
		{&Error{Kind: KindUnknown, Op: OpClone, Raw: "fatal: repository not found"}, "Git clone failed: fatal: repository not found"},
		{&Error{Kind: KindTimeout, Op: OpPush}, "Push timed out"},
		{&Error{Kind: KindExecFailure, Op: OpPull, Raw: "git: not found"}, "Failed to execute pull: git: not found"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"git error", &Error{Kind: KindPermissionDenied}, KindPermissionDenied},
		{"wrapped git error", fmt.Errorf("push: %w", &Error{Kind: KindNoUpstreamBranch}), KindNoUpstreamBranch},
		{"configuration", fmt.Errorf("%w: no home", env.ErrConfiguration), KindConfiguration},
		{"unavailable", fmt.Errorf("%w: bridge down", env.ErrEnvironmentUnavailable), KindEnvironmentUnavailable},
		{"timeout", fmt.Errorf("%w: git", cmd.ErrTimeout), KindTimeout},
		{"exec", fmt.Errorf("%w git: not found", cmd.ErrExecFailure), KindExecFailure},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindNoStashEntries, Op: OpStashPop, Raw: "No stash entries found."})
	if !errors.Is(err, ErrNoStashEntries) {
		t.Error("errors.Is(err, ErrNoStashEntries) = false")
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Error("errors.Is(err, ErrPermissionDenied) = true")
	}
}

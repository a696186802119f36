package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/ketra/internal/cmd"
	"github.com/raphi011/ketra/internal/env"
)

// Kind classifies the failure of a git operation.
type Kind int

const (
	KindNone Kind = iota
	KindConfiguration
	KindEnvironmentUnavailable
	KindNotARepository
	KindNoUpstreamBranch
	KindPermissionDenied
	KindNoLocalChanges
	KindNoStashEntries
	KindExecFailure
	KindTimeout
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfiguration:
		return "configuration"
	case KindEnvironmentUnavailable:
		return "environment_unavailable"
	case KindNotARepository:
		return "not_a_repository"
	case KindNoUpstreamBranch:
		return "no_upstream_branch"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNoLocalChanges:
		return "no_local_changes"
	case KindNoStashEntries:
		return "no_stash_entries"
	case KindExecFailure:
		return "exec_failure"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrNotARepository   = &Error{Kind: KindNotARepository}
	ErrNoUpstreamBranch = &Error{Kind: KindNoUpstreamBranch}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNoStashEntries   = &Error{Kind: KindNoStashEntries}
)

// Error is a classified git failure.
type Error struct {
	Kind Kind
	Op   Op
	// Raw is the trimmed combined output of the failed command, or the
	// runner error for spawn failures and timeouts.
	Raw string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotARepository:
		return "Not a git repository"
	case KindNoUpstreamBranch:
		return "No remote tracking branch. This project may not have been pushed yet."
	case KindPermissionDenied:
		return "Permission denied. You don't have push access to this repository. Fork it or create your own repo to push changes."
	case KindNoLocalChanges:
		return "No local changes to save"
	case KindNoStashEntries:
		return "No stashed changes to restore"
	case KindTimeout:
		return fmt.Sprintf("%s timed out", e.Op)
	case KindExecFailure:
		return fmt.Sprintf("Failed to execute %s: %s", strings.ToLower(e.Op.String()), e.Raw)
	case KindConfiguration, KindEnvironmentUnavailable:
		return e.Raw
	default:
		return fmt.Sprintf("%s failed: %s", e.Op, e.Raw)
	}
}

// Unwrap returns the underlying runner error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

type rule struct {
	kind     Kind
	patterns []string
	// benign rules also apply to successful outcomes
	benign bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{kind: KindNotARepository, patterns: []string{"No such file or directory", "not a git repository"}},
	{kind: KindNoUpstreamBranch, patterns: []string{"no tracking information", "no upstream branch"}},
	{kind: KindPermissionDenied, patterns: []string{"Permission denied", "403", "denied to push"}},
	{kind: KindNoLocalChanges, patterns: []string{"No local changes to save"}, benign: true},
	{kind: KindNoStashEntries, patterns: []string{"No stash entries found"}},
}

// Classify maps a command outcome to a Kind. A successful outcome is only
// matched against benign rules and is otherwise KindNone; a failed outcome
// matching no rule is KindUnknown.
func Classify(o cmd.Outcome) Kind {
	combined := o.Combined()
	succeeded := o.Succeeded()

	for _, r := range rules {
		if succeeded && !r.benign {
			continue
		}
		for _, p := range r.patterns {
			if strings.Contains(combined, p) {
				return r.kind
			}
		}
	}

	if succeeded {
		return KindNone
	}
	return KindUnknown
}

// KindOf returns the Kind of any error returned by this package or the
// environments and runner it builds on.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var gitErr *Error
	switch {
	case errors.As(err, &gitErr):
		return gitErr.Kind
	case errors.Is(err, env.ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, env.ErrEnvironmentUnavailable):
		return KindEnvironmentUnavailable
	case errors.Is(err, cmd.ErrTimeout):
		return KindTimeout
	case errors.Is(err, cmd.ErrExecFailure):
		return KindExecFailure
	default:
		return KindUnknown
	}
}

// failure builds the classified error for a failed outcome.
func failure(op Op, o cmd.Outcome) *Error {
	return &Error{
		Kind: Classify(o),
		Op:   op,
		Raw:  strings.TrimSpace(o.Combined()),
	}
}

// runFailure wraps a runner error. Cancellation is passed through unchanged.
func runFailure(op Op, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := KindExecFailure
	if errors.Is(err, cmd.ErrTimeout) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Raw: err.Error(), Err: err}
}

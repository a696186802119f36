package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/raphi011/ketra/internal/env"
)

// Status is the git state of a project at scan time.
type Status struct {
	Branch           string `json:"branch"`
	IsClean          bool   `json:"is_clean"`
	CommitsAhead     int    `json:"commits_ahead"`
	CommitsBehind    int    `json:"commits_behind"`
	UncommittedFiles int    `json:"uncommitted_files"`
}

// NewStatus builds a Status. Negative counts are clamped to 0 and IsClean is
// derived from the uncommitted file count.
func NewStatus(branch string, ahead, behind, uncommitted int) Status {
	return Status{
		Branch:           branch,
		IsClean:          max(uncommitted, 0) == 0,
		CommitsAhead:     max(ahead, 0),
		CommitsBehind:    max(behind, 0),
		UncommittedFiles: max(uncommitted, 0),
	}
}

// Probe inspects the repository at path. It returns nil when path is not a
// repository or the working tree status can't be read. A missing branch
// name or upstream degrades to "" and 0/0.
//
// Each command runs under the client's probe timeout.
func (c *Client) Probe(ctx context.Context, e env.Environment, path string) *Status {
	if !e.IsRepo(ctx, path) {
		return nil
	}

	var branch string
	if out, ok := c.probe(ctx, e, path, OpBranch); ok {
		branch = strings.TrimSpace(out)
	}

	out, ok := c.probe(ctx, e, path, OpStatus)
	if !ok {
		return nil
	}
	uncommitted := CountStatusLines(out)

	var ahead, behind int
	if out, ok := c.probe(ctx, e, path, OpRevList); ok {
		ahead, behind = ParseAheadBehind(out)
	}

	status := NewStatus(branch, ahead, behind, uncommitted)
	return &status
}

// probe runs a read-only operation and reports stdout and whether it succeeded.
func (c *Client) probe(ctx context.Context, e env.Environment, path string, op Op) (string, bool) {
	if c.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ProbeTimeout)
		defer cancel()
	}

	o, err := c.Runner.Run(ctx, e.Git(path, Args(op, Params{})...))
	if err != nil || !o.Succeeded() {
		return "", false
	}
	return o.Stdout, true
}

// CountStatusLines counts the non-empty lines of "git status --porcelain".
func CountStatusLines(out string) int {
	n := 0
	for line := range strings.SplitSeq(out, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// ParseAheadBehind parses "git rev-list --left-right --count" output
// ("<ahead>\t<behind>"). Anything but two integers yields 0, 0.
func ParseAheadBehind(out string) (ahead, behind int) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0
	}
	a, errA := strconv.Atoi(fields[0])
	b, errB := strconv.Atoi(fields[1])
	if errA != nil || errB != nil {
		return 0, 0
	}
	return a, b
}

package git

import (
	"strconv"
)

// Op is a logical git operation.
type Op int

const (
	opNone Op = iota
	OpBranch
	OpStatus
	OpRevList
	OpLog
	OpDiff
	OpPull
	OpPush
	OpPushUpstream
	OpClone
	OpBranchList
	OpSwitch
	OpCreateBranch
	OpStash
	OpStashPop
	OpRemoteURL
	OpRemoteAdd
	OpRenameBranch
	OpAddAll
	OpCommit
	OpInit
)

var opNames = map[Op]string{
	opNone:         "Git command",
	OpBranch:       "Branch lookup",
	OpStatus:       "Status",
	OpRevList:      "Ahead/behind count",
	OpLog:          "Log",
	OpDiff:         "Diff",
	OpPull:         "Pull",
	OpPush:         "Push",
	OpPushUpstream: "Push",
	OpClone:        "Git clone",
	OpBranchList:   "Branch listing",
	OpSwitch:       "Switch branch",
	OpCreateBranch: "Create branch",
	OpStash:        "Stash",
	OpStashPop:     "Stash pop",
	OpRemoteURL:    "Remote lookup",
	OpRemoteAdd:    "Adding remote",
	OpRenameBranch: "Branch rename",
	OpAddAll:       "Staging changes",
	OpCommit:       "Commit",
	OpInit:         "Init",
}

// String returns a human-readable label used in error messages.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Params carries the variable parts of an operation.
type Params struct {
	Branch  string
	Remote  string
	URL     string
	Message string
	Limit   int
}

// logFormat separates fields with the ASCII unit separator so that commit
// subjects containing "|" parse correctly.
const logFormat = "--pretty=format:%H%x1f%an%x1f%ae%x1f%at%x1f%s"

// Args returns the git argument vector for op.
// The working directory is bound by the environment, not by Args.
func Args(op Op, p Params) []string {
	switch op {
	case OpBranch:
		return []string{"branch", "--show-current"}
	case OpStatus:
		return []string{"status", "--porcelain"}
	case OpRevList:
		return []string{"rev-list", "--left-right", "--count", "HEAD...@{u}"}
	case OpLog:
		limit := p.Limit
		if limit <= 0 {
			limit = DefaultLogLimit
		}
		return []string{"log", "-" + strconv.Itoa(limit), logFormat}
	case OpDiff:
		return []string{"diff", "HEAD"}
	case OpPull:
		return []string{"pull"}
	case OpPush:
		return []string{"push"}
	case OpPushUpstream:
		return []string{"push", "-u", p.Remote, p.Branch}
	case OpClone:
		return []string{"clone", "--", p.URL}
	case OpBranchList:
		return []string{"branch", "--all"}
	case OpSwitch:
		// "--" keeps a branch named like a file from being read as a pathspec
		return []string{"checkout", p.Branch, "--"}
	case OpCreateBranch:
		return []string{"checkout", "-b", p.Branch}
	case OpStash:
		return []string{"stash"}
	case OpStashPop:
		return []string{"stash", "pop"}
	case OpRemoteURL:
		return []string{"remote", "get-url", p.Remote}
	case OpRemoteAdd:
		return []string{"remote", "add", p.Remote, p.URL}
	case OpRenameBranch:
		return []string{"branch", "-M", p.Branch}
	case OpAddAll:
		return []string{"add", "."}
	case OpCommit:
		return []string{"commit", "-m", p.Message}
	case OpInit:
		return []string{"init", "-b", p.Branch}
	default:
		return nil
	}
}

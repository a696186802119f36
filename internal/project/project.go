package project

import (
	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/git"
)

// GitStatus is the git state of a project.
type GitStatus = git.Status

// Project is a folder directly under an environment's root.
type Project struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Env        env.Kind   `json:"env"`
	LastOpened int64      `json:"last_opened"`
	GitStatus  *GitStatus `json:"git_status,omitempty"`
	IsPinned   bool       `json:"is_pinned"`
}

// FromEntry creates a project without status from a scanner entry.
func FromEntry(k env.Kind, e env.Entry) Project {
	return Project{
		Name:       e.Name,
		Path:       e.Path,
		Env:        k,
		LastOpened: e.LastOpened,
	}
}

// WithStatus returns a copy of p carrying status.
func (p Project) WithStatus(status *GitStatus) Project {
	p.GitStatus = status
	return p
}

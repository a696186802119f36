// Package static provides non-interactive terminal output components.
package static

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/format"
	"github.com/raphi011/ketra/internal/git"
	"github.com/raphi011/ketra/internal/project"
	"github.com/raphi011/ketra/internal/ui/styles"
)

// ProjectHeaders are the columns of ProjectTableRow.
var ProjectHeaders = []string{"NAME", "ENV", "BRANCH", "STATUS", "OPENED", "PATH"}

// maxMessageWidth caps the MESSAGE column of CommitTableRow.
const maxMessageWidth = 72

// CommitHeaders are the columns of CommitTableRow.
var CommitHeaders = []string{"COMMIT", "AUTHOR", "DATE", "MESSAGE"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// ProjectTableRow returns the cells of one project, matching ProjectHeaders.
func ProjectTableRow(p project.Project) []string {
	branch := styles.MutedStyle.Render("-")
	if p.GitStatus != nil && p.GitStatus.Branch != "" {
		branch = p.GitStatus.Branch
	}

	return []string{
		p.Name,
		EnvCell(p.Env),
		branch,
		StatusCell(p.GitStatus),
		format.LastOpened(p.LastOpened),
		PathCell(p),
	}
}

// PathCell renders the project path. Host paths link to their folder.
func PathCell(p project.Project) string {
	if p.Env != env.Native || p.Path == "" {
		return p.Path
	}
	slashed := filepath.ToSlash(p.Path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return styles.Link(u.String(), p.Path)
}

// EnvCell renders the environment badge.
func EnvCell(k env.Kind) string {
	sym := styles.CurrentSymbols()
	if k == env.Bridged {
		return styles.InfoStyle.Render(sym.Bridged)
	}
	return styles.InfoStyle.Render(sym.Native)
}

// StatusCell summarizes a git status: clean or the number of changed files,
// followed by commits ahead and behind. A nil status renders as "-".
func StatusCell(st *git.Status) string {
	if st == nil {
		return styles.MutedStyle.Render("-")
	}

	sym := styles.CurrentSymbols()
	var parts []string
	if st.IsClean {
		parts = append(parts, styles.SuccessStyle.Render(sym.Clean))
	} else {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%s %d", sym.Dirty, st.UncommittedFiles)))
	}
	if st.CommitsAhead > 0 {
		parts = append(parts, fmt.Sprintf("%s%d", sym.Ahead, st.CommitsAhead))
	}
	if st.CommitsBehind > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%s%d", sym.Behind, st.CommitsBehind)))
	}
	return strings.Join(parts, " ")
}

// CommitTableRow returns the cells of one commit, matching CommitHeaders.
func CommitTableRow(c git.Commit) []string {
	hash := c.Hash
	if len(hash) > 7 {
		hash = hash[:7]
	}
	subject, _, _ := strings.Cut(c.Message, "\n")
	return []string{
		hash,
		c.Author,
		format.RelativeTime(time.Unix(c.Timestamp, 0)),
		ansi.Truncate(subject, maxMessageWidth, "…"),
	}
}

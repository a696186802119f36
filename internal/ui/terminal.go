package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether prompts and progress indicators can be shown:
// stdin and stderr must both be terminals.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stderr)
}

// Profile detects the color profile of stderr (handles piped output, NO_COLOR, etc.)
func Profile() colorprofile.Profile {
	return colorprofile.Detect(os.Stderr, os.Environ())
}

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ValidLogLevels lists the accepted log.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidThemeNames lists the built-in colour themes.
var ValidThemeNames = []string{"default", "none", "dracula", "nord", "gruvbox"}

// ValidThemeModes lists the accepted theme.mode values.
var ValidThemeModes = []string{"light", "dark", "auto"}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// validateBridgePath checks that a path inside the bridged environment is an
// absolute POSIX path.
func validateBridgePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%s must be an absolute path inside the bridged environment, got: %q", fieldName, path)
	}
	return nil
}

// validateProjectsDir rejects names that would escape the home folder.
func validateProjectsDir(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("projects_dir must be a single folder name, got: %q", name)
	}
	return nil
}

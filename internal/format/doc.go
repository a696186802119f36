// Package format handles display formatting and name derivation.
//
// # Project Names
//
// Project folder names come from user input ("ketra new"), pasted folders
// and clone URLs. [SanitizeForPath] replaces characters that are invalid in
// folder names on either environment:
//
//	/ \ : * ? " < > |
//
// [RepoNameFromURL] derives the folder name git clone creates from a URL,
// handling HTTPS, SSH (git@host:owner/repo.git) and local paths.
//
// # Relative Time
//
// [RelativeTime] renders a project's last-opened time for list output
// ("5m ago", "yesterday", "2026-01-24").
package format

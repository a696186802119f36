// Package ui provides terminal helpers shared by the UI subpackages.
//
// Subpackages:
//   - static: tables for projects and commits
//   - progress: spinner and probe progress on stderr
//   - prompt: y/N confirmation
//   - styles: themes, colours and status symbols
//
// Everything interactive renders to stderr so stdout stays clean for piping
// (e.g. cd "$(ketra path api)").
package ui

// Package template provides the project templates used by "ketra new".
//
// Templates are defined in templates.yaml, embedded into the binary. Each
// template has a name, optional init commands (argument vectors executed in
// the new project folder, e.g. "npm init -y") and files to write afterwards.
// The placeholder {{name}} is replaced with the project name in commands and
// file contents.
package template

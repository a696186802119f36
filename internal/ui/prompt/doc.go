// Package prompt provides the interactive prompts of the CLI.
//
//   - [Confirm]: y/N confirmation before deleting a project
//   - [TextInput]: commit message for a push
//   - [Select]: choosing between projects or templates
//
// All prompts render to stderr. Callers check ui.Interactive first.
package prompt

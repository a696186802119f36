// Package git provides git operations via the git CLI.
//
// All operations call the git executable rather than using Go git libraries.
// This keeps compatibility with user configuration (SSH keys, credential
// helpers, aliases) in both environments: commands are built by the
// [env.Environment] that owns the project and executed by a [cmd.Runner].
//
// # Operations
//
// Logical operations are identified by [Op]; [Args] maps an operation to its
// argument vector. [Client] wraps the operations callers use:
//
//   - [Client.Probe]: branch, uncommitted files and ahead/behind counts
//   - [Client.Pull], [Client.Push], [Client.Clone]: remote operations
//   - [Client.ListBranches], [Client.SwitchBranch], [Client.CreateBranch]
//   - [Client.CommitHistory], [Client.Diff]
//   - [Client.Stash], [Client.StashPop]
//   - [Client.Init]: initialize a repository with an initial commit
//
// # Push
//
// [Client.Push] is a compound protocol. When the project has no origin
// remote, a repository is created on the hosting service first and wired
// up as origin; local changes are then staged and committed (only when
// something changed) and pushed, setting the upstream on the first push.
//
// # Errors
//
// Failed commands are classified by [Classify] into a [Kind] from the
// combined output. Callers match kinds with errors.Is against the sentinel
// errors ([ErrNotARepository], [ErrNoUpstreamBranch], ...) or use [KindOf].
package git

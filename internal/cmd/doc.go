// Package cmd runs external processes for ketra.
//
// Every invocation is an argument vector; no shell is interposed, so paths,
// branch names and commit messages can never break out of their argument.
//
// # Outcomes and Errors
//
// [Runner.Run] separates two kinds of failure:
//
//   - The process ran and exited non-zero: this is not an error. The caller
//     gets an [Outcome] with stdout, stderr and the exit code and decides what
//     the output means (see the git package's classifier).
//   - The process could not be run at all: [ErrExecFailure] when spawning
//     failed, [ErrTimeout] when the deadline expired and the process was killed.
//
// # Timeouts
//
// [Exec] applies its Timeout when the caller's context carries no deadline,
// so a hung network operation never blocks a worker indefinitely.
//
// # Helpers
//
// [RunContext] and [OutputContext] are shortcuts for callers that only care
// about success; they fold stderr into the returned error.
package cmd

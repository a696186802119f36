// Package env models the two execution environments ketra works against.
//
// An [Environment] is either [Native] (the host filesystem and process space)
// or [Bridged] (a secondary environment such as WSL that is only reachable by
// proxying commands through a bridge executable). Every operation in ketra is
// parameterized by exactly one environment; there is no mixed operation.
//
// # Roots
//
// Each environment resolves a root folder under which projects live:
//
//   - Native: <home>/<projects_dir>, failing with [ErrConfiguration] when the
//     home directory cannot be determined
//   - Bridged: /home/<user>/<projects_dir>, where <user> is looked up through
//     the bridge; failing with [ErrEnvironmentUnavailable] when the bridge
//     cannot be reached or reports no user
//
// Roots are resolved once per scan by the caller and handed to the scanner,
// never re-resolved per project.
//
// # Command Construction
//
// Commands are argument vectors. Native git commands bind their directory with
// "git -C <dir>"; bridged commands are wrapped as
// "<bridge> [--distribution D] --cd <dir> --exec <name> <args...>", which
// executes inside the bridged environment without a shell.
//
// # Path Shape Inference
//
// [Resolver.Infer] decides which environment owns a path from its shape:
// paths starting with one of the bridge prefixes ("/home/", "/mnt/") are
// bridged, everything else is native.
package env

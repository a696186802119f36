// Package project discovers projects in both environments and runs git
// operations against them.
//
// # Discovery
//
// A scan resolves each environment's root once, lists the folders under it,
// probes every project's git status and merges both lists, most recently
// opened first:
//
//   - [Service.DiscoverFast]: native projects only, no probes
//   - [Service.DiscoverBridgedOnly]: bridged projects only, no probes
//   - [Service.DiscoverFull]: both environments, probed, merged
//
// A failing environment never fails a scan: an unreachable bridge or a
// missing root yields no projects for that environment and a warning.
//
// # Probing
//
// [ProbeAll] fans out one probe per project through an errgroup with a
// concurrency limit, so the scan takes as long as the slowest probe rather
// than the sum of all probes, without spawning an unbounded number of git
// processes. Each probe writes only its own result slot.
//
// # Operations
//
// Mutations (pull, push, clone, branch, stash) take an explicit environment
// and return classified errors from the git package. [Service.GetStatus]
// and [Service.Delete] infer the environment from the path shape.
package project

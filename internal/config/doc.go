// Package config handles loading and validation of ketra configuration.
//
// Configuration is read once per process from ~/.config/ketra/config.toml and
// passed explicitly to the components that need it. A missing file yields
// [Default]; an invalid file is reported and the defaults are used.
//
// # Key Settings
//
//   - projects_dir: Folder under each environment's home that holds projects (default: "ketra")
//   - native_root: Override for the native root (must be absolute or ~/...)
//   - default_branch: Branch name used for first pushes and new projects (default: "main")
//   - concurrency: Maximum number of status probes in flight (default: 8)
//   - probe_timeout, command_timeout: Deadlines for probes and mutations
//
// # Bridge Configuration
//
// The [bridge] section describes the bridged environment (WSL by default):
//
//	[bridge]
//	enabled = true
//	command = "wsl"
//	distribution = "Ubuntu"
//	path_prefixes = ["/home/", "/mnt/"]
//
// When enabled is not set, the bridge is enabled on Windows only.
//
// # Path Validation
//
// Host paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory. Bridged paths
// must be absolute POSIX paths.
package config

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults
const (
	DefaultProjectsDir    = "ketra"
	DefaultBranch         = "main"
	DefaultConcurrency    = 8
	DefaultProbeTimeout   = 15 * time.Second
	DefaultCommandTimeout = 5 * time.Minute
	DefaultBridgeCommand  = "wsl"
	DefaultGitHubAPIURL   = "https://api.github.com"
	DefaultTokenEnv       = "GITHUB_TOKEN"
	DefaultWatchDebounce  = 500 * time.Millisecond
)

// DefaultPathPrefixes are the path shapes that identify bridged projects.
var DefaultPathPrefixes = []string{"/home/", "/mnt/"}

// Duration is a time.Duration that reads and writes as a string ("15s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// BridgeConfig describes how to reach the bridged environment.
type BridgeConfig struct {
	Enabled      *bool    `toml:"enabled" json:"enabled,omitempty"` // nil = platform default
	Command      string   `toml:"command" json:"command"`
	Distribution string   `toml:"distribution" json:"distribution,omitempty"`
	User         string   `toml:"user" json:"user,omitempty"`
	Root         string   `toml:"root" json:"root,omitempty"`
	PathPrefixes []string `toml:"path_prefixes" json:"path_prefixes"`
}

// IsEnabled reports whether the bridged environment should be used.
// Defaults to true on Windows, where the bridge is WSL.
func (b BridgeConfig) IsEnabled() bool {
	if b.Enabled != nil {
		return *b.Enabled
	}
	return runtime.GOOS == "windows"
}

// GitHubConfig holds hosting-service settings.
type GitHubConfig struct {
	APIURL   string `toml:"api_url" json:"api_url"`
	TokenEnv string `toml:"token_env" json:"token_env"`
}

// LogConfig holds file logging settings.
type LogConfig struct {
	File  string `toml:"file" json:"file,omitempty"`
	Level string `toml:"level" json:"level,omitempty"`
}

// ThemeConfig selects the colour palette of tables, spinners and prompts.
type ThemeConfig struct {
	Name     string `toml:"name" json:"name,omitempty"`
	Mode     string `toml:"mode" json:"mode,omitempty"` // light, dark or auto
	Nerdfont bool   `toml:"nerdfont" json:"nerdfont,omitempty"`
}

// WatchConfig holds settings for "ketra watch".
type WatchConfig struct {
	Debounce Duration `toml:"debounce" json:"debounce"`
}

// Config holds the ketra configuration
type Config struct {
	ProjectsDir    string       `toml:"projects_dir" json:"projects_dir"`
	NativeRoot     string       `toml:"native_root" json:"native_root,omitempty"`
	DefaultBranch  string       `toml:"default_branch" json:"default_branch"`
	Concurrency    int          `toml:"concurrency" json:"concurrency"`
	ProbeTimeout   Duration     `toml:"probe_timeout" json:"probe_timeout"`
	CommandTimeout Duration     `toml:"command_timeout" json:"command_timeout"`
	Bridge         BridgeConfig `toml:"bridge" json:"bridge"`
	GitHub         GitHubConfig `toml:"github" json:"github"`
	Log            LogConfig    `toml:"log" json:"log"`
	Watch          WatchConfig  `toml:"watch" json:"watch"`
	Theme          ThemeConfig  `toml:"theme" json:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		ProjectsDir:    DefaultProjectsDir,
		DefaultBranch:  DefaultBranch,
		Concurrency:    DefaultConcurrency,
		ProbeTimeout:   Duration(DefaultProbeTimeout),
		CommandTimeout: Duration(DefaultCommandTimeout),
		Bridge: BridgeConfig{
			Command:      DefaultBridgeCommand,
			PathPrefixes: append([]string(nil), DefaultPathPrefixes...),
		},
		GitHub: GitHubConfig{
			APIURL:   DefaultGitHubAPIURL,
			TokenEnv: DefaultTokenEnv,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: Duration(DefaultWatchDebounce),
		},
	}
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ketra", "config.toml"), nil
}

// Load reads config from ~/.config/ketra/config.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path. Unset values keep their defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// normalize validates cfg, expands ~ and fills empty values with defaults.
func (c *Config) normalize() error {
	if c.ProjectsDir == "" {
		c.ProjectsDir = DefaultProjectsDir
	}
	if err := validateProjectsDir(c.ProjectsDir); err != nil {
		return err
	}

	if err := ValidatePath(c.NativeRoot, "native_root"); err != nil {
		return err
	}
	if err := ValidatePath(c.Log.File, "log.file"); err != nil {
		return err
	}
	if err := validateBridgePath(c.Bridge.Root, "bridge.root"); err != nil {
		return err
	}
	if err := validateEnum(c.Log.Level, "log.level", ValidLogLevels); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return err
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got: %d", c.Concurrency)
	}
	if c.ProbeTimeout < 0 || c.CommandTimeout < 0 || c.Watch.Debounce < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	// Expand ~ (shell doesn't expand in config files)
	var err error
	if c.NativeRoot, err = expandPath(c.NativeRoot); err != nil {
		return fmt.Errorf("expand native_root: %w", err)
	}
	if c.Log.File, err = expandPath(c.Log.File); err != nil {
		return fmt.Errorf("expand log.file: %w", err)
	}

	// Use defaults for empty values
	if c.DefaultBranch == "" {
		c.DefaultBranch = DefaultBranch
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Bridge.Command == "" {
		c.Bridge.Command = DefaultBridgeCommand
	}
	if len(c.Bridge.PathPrefixes) == 0 {
		c.Bridge.PathPrefixes = append([]string(nil), DefaultPathPrefixes...)
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultGitHubAPIURL
	}
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = DefaultTokenEnv
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

const defaultConfig = `# ketra configuration

# Folder under the home directory of each environment that holds projects.
# Native:  <home>/ketra      Bridged: /home/<user>/ketra
# projects_dir = "ketra"

# Override the native root (absolute or starting with ~)
# native_root = "~/Code"

# Branch used for first pushes and new projects
# default_branch = "main"

# Maximum number of git status probes running at once
# concurrency = 8

# Deadlines for status probes and for mutations (pull, push, clone, ...)
# A command exceeding its deadline is killed and reported as timed out.
# probe_timeout = "15s"
# command_timeout = "5m"

# Bridged environment (WSL). Enabled by default on Windows only.
# [bridge]
# enabled = true
# command = "wsl"
# distribution = "Ubuntu"
# user = ""                           # skip the user lookup
# root = ""                           # e.g. "/home/me/projects"
# path_prefixes = ["/home/", "/mnt/"] # paths with these prefixes belong to the bridge

# GitHub, used to create a repository on first push and to delete it again.
# The token is read from $GITHUB_TOKEN, falling back to "gh auth token".
# [github]
# api_url = "https://api.github.com"
# token_env = "GITHUB_TOKEN"

# JSON log file (rotated). Empty disables file logging.
# [log]
# file = "~/.ketra/ketra.log"
# level = "info"

# [watch]
# debounce = "500ms"

# Colours: default, none, dracula, nord, gruvbox
# [theme]
# name = "default"
# mode = "auto"      # light, dark or auto
# nerdfont = false
`

// Init creates a default config file at ~/.config/ketra/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitFile(path, force)
}

// InitFile writes the default config to path.
func InitFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}

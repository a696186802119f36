package config

import "context"

// configKey is the context key for the loaded Config
type configKey struct{}

// WithConfig returns a new context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the Config stored in ctx.
// Returns the defaults if none is stored.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	d := Default()
	return &d
}

// DefaultContent returns the commented default config file.
func DefaultContent() string {
	return defaultConfig
}

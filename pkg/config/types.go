package config

import "time"

// Config holds all application configuration for a tokamak server process.
// Fields are populated from the environment by envconfig.Process, the same
// way the teacher's template-router loads its own Config.
type Config struct {
	// Server configures the listener mounted in front of the dispatcher.
	Server ServerConfig `envconfig:"SERVER"`

	// Route configures per-route defaults applied by the dispatcher.
	Route RouteConfig `envconfig:"ROUTE"`

	// Logging configures the zap logger built in pkg/logging.
	Logging LoggingConfig `envconfig:"LOGGING"`

	// Watch enables the fsnotify-based watcher (WatchFile) that reports log
	// level/format changes only; it never touches injector wiring (Non-goal:
	// dynamic type registration after container build).
	Watch WatchConfig `envconfig:"WATCH"`
}

// ServerConfig holds listener configuration (spec.md §6 "Configuration
// surface": listen.port, listen.address).
type ServerConfig struct {
	Address         string        `envconfig:"ADDRESS" default:"127.0.0.1"`
	Port            uint16        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// RouteConfig holds per-route defaults (spec.md §6 "Per-route: max_body_len").
type RouteConfig struct {
	MaxBodyLen int64 `envconfig:"MAX_BODY_LEN" default:"1048576"`
}

// LoggingConfig mirrors the teacher's logger.NewService inputs.
type LoggingConfig struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"json"`
	Output     string `envconfig:"OUTPUT" default:"stdout"`
	EnableFile bool   `envconfig:"ENABLE_FILE" default:"false"`
	FilePath   string `envconfig:"FILE_PATH" default:"tokamak.log"`
}

// WatchConfig controls the optional fsnotify config-file watcher.
type WatchConfig struct {
	Enabled bool   `envconfig:"ENABLED" default:"false"`
	Path    string `envconfig:"PATH" default:""`
}

// IsProduction mirrors the teacher's heuristic: a non-loopback listen
// address suggests a deployed instance rather than a local dev run.
func (c *Config) IsProduction() bool {
	return c.Server.Address != "127.0.0.1" && c.Server.Address != "localhost"
}

// IsDevelopment is the complement of IsProduction, named the way the
// teacher names it so call sites read the same ("if cfg.IsDevelopment()").
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

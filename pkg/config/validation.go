package config

import (
	"errors"
	"fmt"
)

// Validate checks every field and returns every violation found, joined with
// errors.Join, rather than returning on the first failure — the same
// collect-all-then-report shape the teacher's ValidationOrchestrator uses
// for route validation.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == 0 {
		errs = append(errs, fmt.Errorf("server port must not be zero"))
	}
	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("server address must not be empty"))
	}
	if c.Route.MaxBodyLen <= 0 {
		errs = append(errs, fmt.Errorf("route max body length must be positive, got %d", c.Route.MaxBodyLen))
	}
	switch c.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("unsupported logging format %q", c.Logging.Format))
	}
	if c.Logging.EnableFile && c.Logging.FilePath == "" {
		errs = append(errs, fmt.Errorf("logging file path must not be empty when file logging is enabled"))
	}
	if c.Watch.Enabled && c.Watch.Path == "" {
		errs = append(errs, fmt.Errorf("watch path must not be empty when config watching is enabled"))
	}

	return errors.Join(errs...)
}

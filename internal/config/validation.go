package config

import (
	"fmt"
)

// Validate checks config values for life correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Orchestrator
	if c.Orchestrator.MaxRoundsPerTurn < 1 {
		errs = append(errs, "orchestrator.max_rounds_per_turn must be >= 1")
	}
	if c.Orchestrator.MaxTurns < 0 {
		errs = append(errs, "orchestrator.max_turns must be >= 0")
	}

	// Provider
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errs = append(errs, "provider.temperature must be within [0, 2]")
	}
	if c.Provider.RequestsPerMinute < 0 {
		errs = append(errs, "provider.requests_per_minute must be >= 0")
	}
	if c.Provider.RetryAttempts < 1 {
		errs = append(errs, "provider.retry_attempts must be >= 1")
	}
	if c.Provider.RetryFallbackSecs < 0 {
		errs = append(errs, "provider.retry_fallback_secs must be >= 0")
	}
	if c.Provider.RequestTimeoutSec < 1 {
		errs = append(errs, "provider.request_timeout_secs must be >= 1")
	}

	// History
	if c.History.Retain < 1 {
		errs = append(errs, "history.retain must be >= 1")
	}
	if c.History.Debounce < 1 {
		errs = append(errs, "history.debounce must be >= 1")
	}
	// first message + digest + retained tail must fit under the threshold
	if c.History.Threshold < c.History.Retain+2 {
		errs = append(errs, "history.threshold must be >= history.retain + 2")
	}

	// Selection
	if c.Selection.HandoffScan < 1 {
		errs = append(errs, "selection.handoff_scan must be >= 1")
	}
	if c.Selection.OracleWindow < 1 {
		errs = append(errs, "selection.oracle_window must be >= 1")
	}

	// Tools
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.MaxCommandOutputSize < 1 {
		errs = append(errs, "tools.max_command_output_size must be >= 1")
	}
	if c.Tools.ShellTimeoutSeconds < 1 {
		errs = append(errs, "tools.shell_timeout_seconds must be >= 1")
	}
	if c.Tools.ShellGracefulMs < 0 {
		errs = append(errs, "tools.shell_graceful_ms must be >= 0")
	}
	if c.Tools.MaxListResults < 1 {
		errs = append(errs, "tools.max_list_results must be >= 1")
	}

	// Research
	if c.Research.DefaultCount < 1 || c.Research.DefaultCount > 10 {
		errs = append(errs, "research.default_count must be within [1, 10]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

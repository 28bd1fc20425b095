package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Orchestrator OrchestratorConfig `json:"orchestrator"`
	Provider     ProviderConfig     `json:"provider"`
	History      HistoryConfig      `json:"history"`
	Selection    SelectionConfig    `json:"selection"`
	Tools        ToolsConfig        `json:"tools"`
	Research     ResearchConfig     `json:"research"`
}

type OrchestratorConfig struct {
	MaxRoundsPerTurn int    `json:"max_rounds_per_turn"` // Default: 5
	MaxTurns         int    `json:"max_turns"`           // Default: 0 (unbounded)
	TeamFile         string `json:"team_file"`           // Optional YAML roster override
	InstructionsFile string `json:"instructions_file"`   // Optional shared instructions appended to every actor
}

type ProviderConfig struct {
	Model             string  `json:"model"`                // Default: gemini-2.5-flash
	Temperature       float32 `json:"temperature"`          // Default: 0.2
	RequestsPerMinute int     `json:"requests_per_minute"`  // Default: 0 (no pacing)
	RetryAttempts     int     `json:"retry_attempts"`       // Default: 5 (total attempts on 429)
	RetryFallbackSecs int     `json:"retry_fallback_secs"`  // Default: 5
	RequestTimeoutSec int     `json:"request_timeout_secs"` // Default: 300
}

type HistoryConfig struct {
	Threshold int `json:"threshold"` // Default: 20
	Retain    int `json:"retain"`    // Default: 10
	Debounce  int `json:"debounce"`  // Default: 3
}

type SelectionConfig struct {
	HandoffScan  int `json:"handoff_scan"`  // Default: 5
	OracleWindow int `json:"oracle_window"` // Default: 3
}

type ToolsConfig struct {
	MaxFileSize          int64    `json:"max_file_size"`           // Default: 5MB
	MaxCommandOutputSize int64    `json:"max_command_output_size"` // Default: 1MB
	ShellTimeoutSeconds  int      `json:"shell_timeout_seconds"`   // Default: 60
	ShellGracefulMs      int      `json:"shell_graceful_ms"`       // Default: 2000
	ShellDeny            []string `json:"shell_deny"`              // Executables refused on argv[0]
	ListRespectGitignore bool     `json:"list_respect_gitignore"`  // Default: false
	MaxListResults       int      `json:"max_list_results"`        // Default: 10000
}

type ResearchConfig struct {
	Endpoint     string `json:"endpoint"`      // Default: Google Custom Search v1
	DefaultCount int    `json:"default_count"` // Default: 5
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			MaxRoundsPerTurn: 5,
			MaxTurns:         0,
		},
		Provider: ProviderConfig{
			Model:             "gemini-2.5-flash",
			Temperature:       0.2,
			RequestsPerMinute: 0,
			RetryAttempts:     5,
			RetryFallbackSecs: 5,
			RequestTimeoutSec: 300,
		},
		History: HistoryConfig{
			Threshold: 20,
			Retain:    10,
			Debounce:  3,
		},
		Selection: SelectionConfig{
			HandoffScan:  5,
			OracleWindow: 3,
		},
		Tools: ToolsConfig{
			MaxFileSize:          5 * 1024 * 1024,
			MaxCommandOutputSize: 1024 * 1024,
			ShellTimeoutSeconds:  60,
			ShellGracefulMs:      2000,
			ShellDeny:            []string{},
			ListRespectGitignore: false,
			MaxListResults:       10000,
		},
		Research: ResearchConfig{
			Endpoint:     "https://www.googleapis.com/customsearch/v1",
			DefaultCount: 5,
		},
	}
}

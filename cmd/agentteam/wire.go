package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/config"
	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/provider/gemini"
	"github.com/Cyclone1070/agentteam/internal/provider/retry"
	"github.com/Cyclone1070/agentteam/internal/tool"
	"github.com/Cyclone1070/agentteam/internal/tool/directory"
	"github.com/Cyclone1070/agentteam/internal/tool/file"
	"github.com/Cyclone1070/agentteam/internal/tool/research"
	"github.com/Cyclone1070/agentteam/internal/tool/service/executor"
	"github.com/Cyclone1070/agentteam/internal/tool/service/fs"
	"github.com/Cyclone1070/agentteam/internal/tool/service/git"
	"github.com/Cyclone1070/agentteam/internal/tool/service/path"
	"github.com/Cyclone1070/agentteam/internal/tool/shell"
)

// Dependencies holds the pieces of a session that tests replace.
type Dependencies struct {
	OracleFactory func(ctx context.Context, cfg *config.Config, getenv func(string) string, logger *zap.Logger) (provider.Oracle, error)
	Getenv        func(string) string
	HomeDir       func() (string, error)
}

func defaultDependencies() Dependencies {
	return Dependencies{
		OracleFactory: newGeminiOracle,
		Getenv:        os.Getenv,
		HomeDir:       os.UserHomeDir,
	}
}

// newRetryClient returns an HTTP client that retries 429 responses and,
// when paced is set, waits on the configured request rate.
func newRetryClient(cfg *config.Config, logger *zap.Logger, paced bool) *http.Client {
	opts := retry.Options{
		Attempts: cfg.Provider.RetryAttempts,
		Fallback: fallbackWait(cfg.Provider.RetryFallbackSecs),
		Logger:   logger,
	}
	if paced {
		opts.Limiter = retry.PerMinute(cfg.Provider.RequestsPerMinute)
	}
	return retry.NewClient(time.Duration(cfg.Provider.RequestTimeoutSec)*time.Second, opts)
}

// fallbackWait converts the configured seconds; an explicit zero means
// retry immediately.
func fallbackWait(secs int) time.Duration {
	if secs <= 0 {
		return -1
	}
	return time.Duration(secs) * time.Second
}

func newGeminiOracle(ctx context.Context, cfg *config.Config, getenv func(string) string, logger *zap.Logger) (provider.Oracle, error) {
	apiKey := getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := gemini.Dial(ctx, apiKey, newRetryClient(cfg, logger, true))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	temperature := cfg.Provider.Temperature
	return gemini.New(client, cfg.Provider.Model, &temperature, logger), nil
}

// loadRoster returns the built-in team unless the config names a team file.
func loadRoster(cfg *config.Config) (*actor.Roster, error) {
	if cfg.Orchestrator.TeamFile == "" {
		return actor.DefaultRoster(), nil
	}
	data, err := os.ReadFile(expandHome(cfg.Orchestrator.TeamFile))
	if err != nil {
		return nil, fmt.Errorf("read team file: %w", err)
	}
	roster, err := actor.ParseTeam(data)
	if err != nil {
		return nil, fmt.Errorf("team file %s: %w", cfg.Orchestrator.TeamFile, err)
	}
	return roster, nil
}

// loadInstructions reads the shared project rules. A relative path is
// resolved against the project root; a missing file is not an error.
func loadInstructions(cfg *config.Config, root string) (string, error) {
	name := cfg.Orchestrator.InstructionsFile
	if name == "" {
		return "", nil
	}
	name = expandHome(name)
	if !filepath.IsAbs(name) {
		name = filepath.Join(root, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read instructions: %w", err)
	}
	return string(data), nil
}

// buildExecutor wires the sandboxed tools for root, which must already be
// canonical.
func buildExecutor(cfg *config.Config, root string, getenv func(string) string, logger *zap.Logger) *tool.Executor {
	files := fs.NewOSFileSystem()
	resolver := path.NewResolver(root)

	list := directory.NewListFilesTool(files, resolver, nil, cfg.Tools.MaxListResults)
	if cfg.Tools.ListRespectGitignore {
		matcher, err := git.NewIgnoreMatcher(root, files)
		if err != nil {
			logger.Warn("gitignore unavailable, listing all files", zap.Error(err))
		} else {
			list = directory.NewListFilesTool(files, resolver, matcher, cfg.Tools.MaxListResults)
		}
	}

	runner := executor.NewOSCommandExecutor(executor.Options{
		MaxOutputBytes: cfg.Tools.MaxCommandOutputSize,
		Grace:          time.Duration(cfg.Tools.ShellGracefulMs) * time.Millisecond,
	})

	creds := research.Credentials{
		APIKey:   getenv("GOOGLE_SEARCH_API_KEY"),
		EngineID: getenv("GOOGLE_SEARCH_ENGINE_ID"),
	}
	search := research.NewSearchTool(newRetryClient(cfg, logger, false), cfg.Research.Endpoint, creds, cfg.Research.DefaultCount)
	if !search.Configured() {
		logger.Info("research credentials not set, web search disabled")
	}

	return tool.NewExecutor(tool.Tools{
		Write:  file.NewWriteFileTool(files, resolver, cfg.Tools.MaxFileSize),
		Read:   file.NewReadFileTool(files, resolver, cfg.Tools.MaxFileSize),
		List:   list,
		Shell:  shell.NewShellTool(runner, root, time.Duration(cfg.Tools.ShellTimeoutSeconds)*time.Second, cfg.Tools.ShellDeny),
		Search: search,
	}, logger)
}

func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

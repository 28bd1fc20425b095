package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/agentteam/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	logFile    string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "agentteam",
		Short:         "Run a team of AI actors that plan, build and review a project",
		Long:          "agentteam routes a goal through a fixed roster of language-model actors. Actors read and write files and run commands inside a sandboxed project directory until the Supervisor approves or fails the project.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default ~/.config/agentteam/config.json)")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "show speaker selection and debug logs")
	flags.StringVar(&g.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&g.logFormat, "log-format", "console", "log format: console or json")

	rootCmd.AddCommand(
		newRunCmd(g, defaultDependencies()),
		newTeamCmd(g),
	)
	return rootCmd
}

// loadConfig reads the explicit config file when one was given and the
// dotfile otherwise.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		cfg, err := config.NewLoader().LoadFile(g.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (g *globalOptions) logLevel() string {
	if g.verbose {
		return "debug"
	}
	return "warn"
}

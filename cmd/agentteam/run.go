package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/config"
	"github.com/Cyclone1070/agentteam/internal/history"
	"github.com/Cyclone1070/agentteam/internal/logging"
	"github.com/Cyclone1070/agentteam/internal/orchestrator"
	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/selection"
	"github.com/Cyclone1070/agentteam/internal/termination"
	"github.com/Cyclone1070/agentteam/internal/ui"
	"github.com/Cyclone1070/agentteam/internal/workflow"
	"github.com/Cyclone1070/agentteam/internal/workflow/loop"
)

const markdownWidth = 100

type runOptions struct {
	goal     string
	goalFile string
	project  string
	name     string
	existing bool
	selfTest bool
	markdown bool
}

func newRunCmd(g *globalOptions, deps Dependencies) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the team on a goal inside a project directory",
		Example: `  agentteam run --goal "Build a snake game in Python"
  agentteam run --existing --project ~/src/books --goal "Add GetByAuthor to BookService"
  agentteam run --project ./demo --goal-file Specification.md
  agentteam run --self-test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTeam(ctx, cmd.OutOrStdout(), g, *opts, deps)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.goal, "goal", "g", "", "what the team should build or change")
	flags.StringVarP(&opts.goalFile, "goal-file", "f", "", "read the goal from a file (a directory means its "+specFileName+")")
	flags.StringVarP(&opts.project, "project", "p", "", "project directory (default ~/Projects/<name>)")
	flags.StringVar(&opts.name, "name", "", "name of a new project created under ~/Projects")
	flags.BoolVar(&opts.existing, "existing", false, "work on an existing project instead of creating one")
	flags.BoolVar(&opts.selfTest, "self-test", false, "run the file write self-test and verify its result")
	flags.BoolVar(&opts.markdown, "markdown", false, "render actor messages as markdown")

	return cmd
}

func runTeam(ctx context.Context, out io.Writer, g *globalOptions, opts runOptions, deps Dependencies) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logger, cleanup, err := logging.New(logging.Options{
		Level:  g.logLevel(),
		Format: g.logFormat,
		File:   g.logFile,
		Fields: map[string]string{"session": sessionID},
	})
	if err != nil {
		return err
	}
	defer cleanup()

	root, mode, err := resolveProject(opts, deps.HomeDir, time.Now())
	if err != nil {
		return err
	}
	goal, err := resolveGoal(opts)
	if err != nil {
		return err
	}

	orch, events, err := newSession(ctx, cfg, root, mode, deps, logger)
	if err != nil {
		return err
	}

	var markdown ui.MarkdownRenderer
	if opts.markdown {
		if markdown, err = ui.NewGlamourRenderer(markdownWidth); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "--- Team Working ---")
	fmt.Fprintf(out, "Working Directory: %s\n", root)
	fmt.Fprintf(out, "Mode: %s\n", mode)
	logger.Info("session started", zap.String("root", root), zap.Stringer("mode", mode))

	printer := ui.NewPrinter(out, markdown, g.verbose)
	done := make(chan termination.Signal)
	go func() {
		done <- printer.Consume(events)
	}()

	runErr := orch.Run(ctx, goal)
	close(events)
	outcome := <-done

	if runErr != nil {
		logger.Error("session ended with error", zap.Error(runErr), zap.String("code", string(provider.CodeOf(runErr))))
		if provider.IsRateLimited(runErr) {
			fmt.Fprintln(out, "Rate limit persisted after retries; lower provider.requests_per_minute or try again later.")
		}
	} else {
		logger.Info("session ended", zap.Stringer("signal", outcome))
	}

	if opts.selfTest {
		if err := verifySelfTest(out, root); err != nil && runErr == nil {
			runErr = err
		}
	}

	fmt.Fprintln(out, "\n--- Process Completed ---")
	return runErr
}

// newSession wires one orchestrator for root. The returned channel carries
// its events and is closed by the caller once Run returns.
func newSession(ctx context.Context, cfg *config.Config, root string, mode selection.Mode, deps Dependencies, logger *zap.Logger) (*orchestrator.Orchestrator, chan workflow.Event, error) {
	oracle, err := deps.OracleFactory(ctx, cfg, deps.Getenv, logger)
	if err != nil {
		return nil, nil, err
	}
	roster, err := loadRoster(cfg)
	if err != nil {
		return nil, nil, err
	}
	shared, err := loadInstructions(cfg, root)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan workflow.Event, 64)
	selector := selection.NewEngine(roster, oracle, selection.Options{
		HandoffScan: cfg.Selection.HandoffScan,
		Window:      cfg.Selection.OracleWindow,
		Mode:        mode,
	}, logger)
	compressor := history.NewCompressor(oracle, history.Options{
		Threshold: cfg.History.Threshold,
		Retain:    cfg.History.Retain,
		Debounce:  cfg.History.Debounce,
	}, logger)

	orch := orchestrator.New(orchestrator.Deps{
		Roster:     roster,
		Selector:   selector,
		Turns:      loop.NewLoop(oracle, termination.NewPolicy(cfg.Orchestrator.MaxRoundsPerTurn), events, logger),
		Tools:      buildExecutor(cfg, root, deps.Getenv, logger),
		Compressor: compressor,
	}, events, orchestrator.Options{
		MaxTurns: cfg.Orchestrator.MaxTurns,
		Mode:     mode,
		Shared:   shared,
	}, logger)

	return orch, events, nil
}

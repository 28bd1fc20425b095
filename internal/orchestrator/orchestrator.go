// Package orchestrator drives a session: it picks speakers, runs their
// turns, intercepts tool directives and stops on a completion keyword.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/selection"
	"github.com/Cyclone1070/agentteam/internal/termination"
	"github.com/Cyclone1070/agentteam/internal/tool"
	"github.com/Cyclone1070/agentteam/internal/tool/research"
	"github.com/Cyclone1070/agentteam/internal/workflow"
	"github.com/Cyclone1070/agentteam/internal/workflow/loop"
)

// ErrTurnLimit is returned when a session exceeds its configured turn budget.
var ErrTurnLimit = errors.New("turn limit reached")

type speakerSelector interface {
	Next(ctx context.Context, msgs []conversation.Message) (selection.Decision, error)
}

type turnRunner interface {
	Run(ctx context.Context, state *conversation.State, speaker actor.Actor, system string) (*loop.Turn, error)
}

type directiveExecutor interface {
	Execute(ctx context.Context, caller actor.Actor, history *research.History, d directive.Directive) tool.Result
}

type historyCompressor interface {
	Compress(ctx context.Context, s *conversation.State) (bool, error)
}

// Options tune a session.
type Options struct {
	// MaxTurns bounds the number of speaker turns. Zero means unbounded.
	MaxTurns int

	Mode selection.Mode

	// Shared is appended to every actor's system instruction.
	Shared string
}

// Deps are the collaborators of an Orchestrator. All are required.
type Deps struct {
	Roster     *actor.Roster
	Selector   speakerSelector
	Turns      turnRunner
	Tools      directiveExecutor
	Compressor historyCompressor
}

type Orchestrator struct {
	roster     *actor.Roster
	selector   speakerSelector
	turns      turnRunner
	tools      directiveExecutor
	compressor historyCompressor
	events     chan<- workflow.Event
	opts       Options
	logger     *zap.Logger
}

// New creates an Orchestrator. Events are sent synchronously, so a non-nil
// channel must be drained while Run is active.
func New(deps Deps, events chan<- workflow.Event, opts Options, logger *zap.Logger) *Orchestrator {
	if deps.Roster == nil {
		panic("roster is required")
	}
	if deps.Selector == nil {
		panic("selector is required")
	}
	if deps.Turns == nil {
		panic("turn runner is required")
	}
	if deps.Tools == nil {
		panic("tool executor is required")
	}
	if deps.Compressor == nil {
		panic("compressor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		roster:     deps.Roster,
		selector:   deps.Selector,
		turns:      deps.Turns,
		tools:      deps.Tools,
		compressor: deps.Compressor,
		events:     events,
		opts:       opts,
		logger:     logger,
	}
}

// Run executes one session for goal. It returns nil once an actor emits a
// completion keyword and an error for anything that stops the session
// earlier. A DoneEvent is always the last event sent.
func (o *Orchestrator) Run(ctx context.Context, goal string) error {
	signal := termination.None
	defer func() {
		o.emit(workflow.DoneEvent{Signal: signal})
	}()

	state := conversation.NewState(Goal(goal, o.opts.Mode))
	searches := research.NewHistory()

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if o.opts.MaxTurns > 0 && turn > o.opts.MaxTurns {
			return fmt.Errorf("%w (%d)", ErrTurnLimit, o.opts.MaxTurns)
		}

		decision, err := o.selector.Next(ctx, state.Messages())
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		speaker := decision.Actor
		o.logger.Info("speaker selected",
			zap.Int("turn", turn),
			zap.String("actor", speaker.Name),
			zap.Stringer("rule", decision.Rule))
		o.emit(workflow.SpeakerEvent{Actor: speaker.Name, Rule: decision.Rule})

		result, err := o.turns.Run(ctx, state, speaker, o.roster.SystemInstruction(speaker, o.opts.Shared))
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if !result.Produced {
			o.logger.Warn("actor produced no output", zap.String("actor", speaker.Name))
			continue
		}

		if err := o.intercept(ctx, state, searches, speaker, result.Final); err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}

		if s := termination.DetectSignal(result.Final.Content); s != termination.None {
			signal = s
			o.logger.Info("session finished",
				zap.String("actor", speaker.Name),
				zap.Stringer("signal", s),
				zap.Int("turns", turn))
			return nil
		}

		before := state.Len()
		compressed, err := o.compressor.Compress(ctx, state)
		if err != nil {
			return fmt.Errorf("compress history: %w", err)
		}
		if compressed {
			o.emit(workflow.CompressedEvent{Before: before, After: state.Len()})
		}
	}
}

// intercept executes every directive in msg, in textual order, and appends
// one result message per directive directly after msg.
func (o *Orchestrator) intercept(ctx context.Context, state *conversation.State, searches *research.History, speaker actor.Actor, msg conversation.Message) error {
	for _, d := range directive.Parse(speaker.Name, msg.Content) {
		res := o.tools.Execute(ctx, speaker, searches, d)
		text := tool.Render(res)
		state.Append(conversation.AuthorInterceptor, conversation.RoleSystem, text)
		o.emit(workflow.ToolEvent{Actor: speaker.Name, Kind: directive.Kind(d), Outcome: res.Outcome, Err: res.Err})
		o.emit(workflow.MessageEvent{Actor: conversation.AuthorInterceptor, Content: text})

		// Completed side effects stay; the remaining directives are skipped.
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) emit(e workflow.Event) {
	if o.events != nil {
		o.events <- e
	}
}

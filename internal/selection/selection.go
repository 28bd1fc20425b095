// Package selection chooses the next speaker of a session.
package selection

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/termination"
)

// Rule names the step of the selection state machine that decided.
type Rule int

const (
	RuleHandoff Rule = iota
	RuleBootstrap
	RuleSticky
	RuleOracle
	RuleOracleFuzzy
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleHandoff:
		return "handoff"
	case RuleBootstrap:
		return "bootstrap"
	case RuleSticky:
		return "sticky"
	case RuleOracle:
		return "oracle"
	case RuleOracleFuzzy:
		return "oracle-fuzzy"
	default:
		return "fallback"
	}
}

// Decision is the selected actor and the rule that picked it.
type Decision struct {
	Actor actor.Actor
	Rule  Rule
}

// Options tunes the engine.
type Options struct {
	// HandoffScan is how many trailing messages are searched for a handoff.
	HandoffScan int
	// Window is how many trailing messages the oracle sees.
	Window int
	Mode   Mode
}

// DefaultOptions scans 5 messages for handoffs and shows the oracle 3.
func DefaultOptions() Options {
	return Options{HandoffScan: 5, Window: 3}
}

var agentTag = regexp.MustCompile(`(?is)<agent>\s*(.*?)\s*</agent>`)

// Engine applies, in order: explicit handoff, session bootstrap,
// stickiness of a mid-task actor, and finally asks the oracle.
type Engine struct {
	roster *actor.Roster
	oracle provider.Oracle
	opts   Options
	logger *zap.Logger

	// byLength holds roster names, longest first, for fuzzy matching.
	byLength []string
}

// NewEngine creates an Engine. logger may be nil.
func NewEngine(roster *actor.Roster, oracle provider.Oracle, opts Options, logger *zap.Logger) *Engine {
	if roster == nil {
		panic("roster is required")
	}
	if oracle == nil {
		panic("oracle is required")
	}
	if opts.HandoffScan < 1 {
		opts.HandoffScan = 5
	}
	if opts.Window < 1 {
		opts.Window = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	names := roster.Names()
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	return &Engine{roster: roster, oracle: oracle, opts: opts, logger: logger, byLength: names}
}

// Next picks the next speaker for msgs. Only oracle failures are errors.
func (e *Engine) Next(ctx context.Context, msgs []conversation.Message) (Decision, error) {
	if a, ok := e.handoff(msgs); ok {
		return Decision{Actor: a, Rule: RuleHandoff}, nil
	}
	if len(msgs) <= 1 {
		return Decision{Actor: e.roster.Entry(), Rule: RuleBootstrap}, nil
	}
	if a, ok := e.sticky(msgs); ok {
		return Decision{Actor: a, Rule: RuleSticky}, nil
	}
	return e.ask(ctx, msgs)
}

// handoff inspects the nearest non-tool message only. A marker in an older
// message never applies once a newer message has superseded it.
func (e *Engine) handoff(msgs []conversation.Message) (actor.Actor, bool) {
	for i := len(msgs) - 1; i >= 0 && len(msgs)-i <= e.opts.HandoffScan; i-- {
		m := msgs[i]
		if m.IsToolResult() || strings.TrimSpace(m.Content) == "" {
			continue
		}
		name, ok := directive.ParseHandoff(m.Content)
		if !ok {
			return actor.Actor{}, false
		}
		a, ok := e.roster.Lookup(name)
		if !ok {
			e.logger.Debug("handoff to unknown actor ignored", zap.String("target", name))
		}
		return a, ok
	}
	return actor.Actor{}, false
}

func (e *Engine) sticky(msgs []conversation.Message) (actor.Actor, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.IsToolResult() {
			continue
		}
		if m.Author == conversation.AuthorUser || e.roster.IsEntry(m.Author) {
			return actor.Actor{}, false
		}
		if directive.HasHandoff(m.Content) || termination.DetectSignal(m.Content) != termination.None {
			return actor.Actor{}, false
		}
		return e.roster.Lookup(m.Author)
	}
	return actor.Actor{}, false
}

func (e *Engine) ask(ctx context.Context, msgs []conversation.Message) (Decision, error) {
	window := msgs[max(0, len(msgs)-e.opts.Window):]
	prompt, err := renderPrompt(e.opts.Mode, e.roster.Names(), window)
	if err != nil {
		return Decision{}, err
	}

	zero := float32(0)
	reply, err := e.oracle.Generate(ctx, &provider.Request{
		Messages:    []provider.Message{{Role: provider.RoleUser, Content: prompt}},
		Temperature: &zero,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("select next speaker: %w", err)
	}

	if m := agentTag.FindStringSubmatch(reply); m != nil {
		if a, ok := e.roster.Lookup(m[1]); ok {
			return Decision{Actor: a, Rule: RuleOracle}, nil
		}
	}
	lower := strings.ToLower(reply)
	for _, name := range e.byLength {
		if strings.Contains(lower, strings.ToLower(name)) {
			a, _ := e.roster.Lookup(name)
			return Decision{Actor: a, Rule: RuleOracleFuzzy}, nil
		}
	}

	e.logger.Debug("unparseable selection reply, using entry actor", zap.String("reply", reply))
	return Decision{Actor: e.roster.Entry(), Rule: RuleFallback}, nil
}

// Package loop runs the generation rounds of a single actor turn.
package loop

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/termination"
	"github.com/Cyclone1070/agentteam/internal/workflow"
)

// continuePrompt is sent when the transcript ends with the speaker's own
// message, since the model API expects the last turn to come from the user.
const continuePrompt = "Continue."

// Turn describes what happened during one actor turn.
type Turn struct {
	Speaker actor.Actor

	// Final is the last message the speaker appended. It is only valid
	// when Produced is true.
	Final    conversation.Message
	Produced bool

	Rounds int
	Reason termination.Reason
}

type Loop struct {
	oracle oracle
	policy turnPolicy
	events chan<- workflow.Event
	logger *zap.Logger
}

func NewLoop(oracle oracle, policy turnPolicy, events chan<- workflow.Event, logger *zap.Logger) *Loop {
	if oracle == nil {
		panic("oracle is required")
	}
	if policy == nil {
		panic("policy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		oracle: oracle,
		policy: policy,
		events: events,
		logger: logger,
	}
}

// Run lets speaker generate until the policy ends the turn or the round
// budget is spent. Every non-blank reply is appended to state and emitted as
// a MessageEvent before the next round starts.
func (l *Loop) Run(ctx context.Context, state *conversation.State, speaker actor.Actor, system string) (*Turn, error) {
	turn := &Turn{Speaker: speaker, Reason: termination.Continue}

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return turn, err
		}

		if l.events != nil {
			l.events <- workflow.ThinkingEvent{Actor: speaker.Name, Round: round}
		}

		text, err := l.oracle.Generate(ctx, buildRequest(state.Messages(), speaker.Name, system))
		if err != nil {
			return turn, fmt.Errorf("generate (%s, round %d): %w", speaker.Name, round, err)
		}
		turn.Rounds = round

		if strings.TrimSpace(text) != "" {
			turn.Final = state.Append(speaker.Name, conversation.RoleActor, text)
			turn.Produced = true
			if l.events != nil {
				l.events <- workflow.MessageEvent{Actor: speaker.Name, Content: text}
			}

			if reason := l.policy.Evaluate(text); reason != termination.Continue {
				turn.Reason = reason
				l.logger.Debug("turn ended",
					zap.String("actor", speaker.Name),
					zap.Int("round", round),
					zap.Stringer("reason", reason))
				return turn, nil
			}
		}

		if l.policy.Exhausted(round) {
			l.logger.Debug("round limit reached",
				zap.String("actor", speaker.Name),
				zap.Int("rounds", round))
			return turn, nil
		}
	}
}

// buildRequest renders the transcript from speaker's point of view: its own
// messages are model turns, everything else is a named user turn.
func buildRequest(msgs []conversation.Message, speaker, system string) *provider.Request {
	req := &provider.Request{System: system}
	for _, m := range msgs {
		if m.Role == conversation.RoleActor && strings.EqualFold(m.Author, speaker) {
			req.Messages = append(req.Messages, provider.Message{Role: provider.RoleModel, Content: m.Content})
			continue
		}
		req.Messages = append(req.Messages, provider.Message{
			Role:    provider.RoleUser,
			Name:    m.Author,
			Content: m.Content,
		})
	}

	if n := len(req.Messages); n == 0 || req.Messages[n-1].Role == provider.RoleModel {
		req.Messages = append(req.Messages, provider.Message{Role: provider.RoleUser, Content: continuePrompt})
	}
	return req
}

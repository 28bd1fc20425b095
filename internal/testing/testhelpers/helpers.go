// Package testhelpers provides shared utilities for session-level tests
package testhelpers

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Cyclone1070/agentteam/internal/provider"
)

// speakerName finds the actor a turn request is generated for; every actor
// system instruction states its name this way.
var speakerName = regexp.MustCompile(`Your name is ([A-Za-z_]+)\.`)

// ScriptedOracle is a controllable oracle for whole sessions. Actor turns
// are answered from per-actor scripts; every other request (speaker
// selection, history summaries) gets the fallback reply.
type ScriptedOracle struct {
	mu       sync.Mutex
	scripts  map[string][]string
	fallback string
	err      error
	requests []*provider.Request

	// OnGenerateCalled is a callback for observing Generate calls
	OnGenerateCalled func(*provider.Request)
}

// NewScriptedOracle creates an oracle with no scripted replies.
func NewScriptedOracle() *ScriptedOracle {
	return &ScriptedOracle{scripts: make(map[string][]string)}
}

// WithReplies queues replies for an actor, in order.
func (o *ScriptedOracle) WithReplies(actor string, replies ...string) *ScriptedOracle {
	o.scripts[actor] = append(o.scripts[actor], replies...)
	return o
}

// WithFallback sets the reply to requests that are not actor turns.
func (o *ScriptedOracle) WithFallback(reply string) *ScriptedOracle {
	o.fallback = reply
	return o
}

// WithError makes every call fail with err.
func (o *ScriptedOracle) WithError(err error) *ScriptedOracle {
	o.err = err
	return o
}

// Generate implements provider.Oracle. An actor whose script has run out
// is an error, so a test never loops silently.
func (o *ScriptedOracle) Generate(ctx context.Context, req *provider.Request) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.requests = append(o.requests, req)
	if o.OnGenerateCalled != nil {
		o.OnGenerateCalled(req)
	}
	if o.err != nil {
		return "", o.err
	}

	m := speakerName.FindStringSubmatch(req.System)
	if m == nil {
		return o.fallback, nil
	}
	queue := o.scripts[m[1]]
	if len(queue) == 0 {
		return "", fmt.Errorf("no more replies scripted for %s", m[1])
	}
	o.scripts[m[1]] = queue[1:]
	return queue[0], nil
}

// Requests returns every request received so far.
func (o *ScriptedOracle) Requests() []*provider.Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*provider.Request, len(o.requests))
	copy(out, o.requests)
	return out
}

// Remaining returns how many replies are still queued for actor.
func (o *ScriptedOracle) Remaining(actor string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.scripts[actor])
}

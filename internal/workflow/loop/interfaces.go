package loop

import (
	"context"

	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/termination"
)

// oracle generates the next message of the speaking actor.
type oracle interface {
	Generate(ctx context.Context, req *provider.Request) (string, error)
}

// turnPolicy decides whether a message ends the current turn.
type turnPolicy interface {
	// Evaluate classifies the actor's latest message.
	Evaluate(content string) termination.Reason

	// Exhausted reports whether round (1-based) was the last one allowed.
	Exhausted(round int) bool
}

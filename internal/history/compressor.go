// Package history keeps the conversation window bounded by replacing aged
// messages with an oracle-written digest.
package history

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/provider"
)

// Options bounds the window. Threshold must be at least Retain + 2.
type Options struct {
	Threshold int
	Retain    int
	Debounce  int
}

// DefaultOptions returns threshold 20, retention 10 and debounce 3.
func DefaultOptions() Options {
	return Options{Threshold: 20, Retain: 10, Debounce: 3}
}

// Compressor summarizes aged history through the oracle.
type Compressor struct {
	oracle provider.Oracle
	opts   Options
	logger *zap.Logger
}

// NewCompressor creates a Compressor. logger may be nil.
func NewCompressor(oracle provider.Oracle, opts Options, logger *zap.Logger) *Compressor {
	if oracle == nil {
		panic("oracle is required")
	}
	if opts.Retain < 1 || opts.Threshold < opts.Retain+2 || opts.Debounce < 1 {
		panic(fmt.Sprintf("invalid history options %+v", opts))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compressor{oracle: oracle, opts: opts, logger: logger}
}

// Compress shrinks s to [first, digest, last Retain...] when it holds more
// than Threshold messages. Until Debounce messages have aged past the
// retention window since the last digest, nothing is dropped. It reports
// whether s was rewritten.
func (c *Compressor) Compress(ctx context.Context, s *conversation.State) (bool, error) {
	msgs := s.Messages()
	if len(msgs) <= c.opts.Threshold {
		return false, nil
	}

	first := msgs[0]
	tail := msgs[len(msgs)-c.opts.Retain:]

	var aged []conversation.Message
	for _, m := range msgs[1 : len(msgs)-c.opts.Retain] {
		if !m.IsDigest() {
			aged = append(aged, m)
		}
	}

	prev, hasPrev := s.Summary()
	var fresh []conversation.Message
	for _, m := range aged {
		if !hasPrev || m.Ordinal >= prev.Covered {
			fresh = append(fresh, m)
		}
	}
	if hasPrev && len(fresh) < c.opts.Debounce {
		c.logger.Debug("history compression deferred",
			zap.Int("messages", len(msgs)),
			zap.Int("newly_aged", len(fresh)),
		)
		return false, nil
	}

	covered := prev.Covered
	if len(fresh) > 0 {
		covered = fresh[len(fresh)-1].Ordinal + 1
	}

	digest := prev.Digest
	if len(fresh) > 0 {
		text, err := c.oracle.Generate(ctx, &provider.Request{
			System:   summarizerInstruction,
			Messages: []provider.Message{{Role: provider.RoleUser, Content: buildSummaryPrompt(prev.Digest, fresh)}},
		})
		if err != nil {
			return false, fmt.Errorf("summarize history: %w", err)
		}
		digest = strings.TrimSpace(text)
	}

	window := make([]conversation.Message, 0, c.opts.Retain+2)
	// tail[0]-1 was summarized away and sorts after first.
	window = append(window, first, conversation.DigestMessage(digestHeader+digest, tail[0].Ordinal-1))
	window = append(window, tail...)
	if err := s.Replace(window, conversation.Summary{Digest: digest, Covered: covered}); err != nil {
		return false, err
	}

	c.logger.Info("history compressed",
		zap.Int("before", len(msgs)),
		zap.Int("after", len(window)),
		zap.Int("summarized", len(fresh)),
		zap.Int("covered", covered),
	)
	return true, nil
}

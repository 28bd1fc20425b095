package executor

import (
	"bytes"

	"github.com/Cyclone1070/agentteam/internal/tool/helper/content"
)

const binaryPlaceholder = "[Binary Content]"

// collector captures one output stream up to maxBytes. Streams whose
// leading bytes look binary are dropped entirely.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool

	sampled    int
	sampleSize int
}

func newCollector(maxBytes int, sampleSize int) *collector {
	return &collector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
	}
}

// Write never fails so the process is never blocked on a full pipe.
func (c *collector) Write(p []byte) (int, error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.sampled < c.sampleSize {
		head := p[:min(len(p), c.sampleSize-c.sampled)]
		if content.IsBinaryContent(head) {
			c.isBinary = true
			c.truncated = true
			return len(p), nil
		}
		c.sampled += len(head)
	}

	room := c.maxBytes - c.buffer.Len()
	if room <= 0 {
		c.truncated = true
		return len(p), nil
	}
	chunk := p
	if len(chunk) > room {
		chunk = chunk[:room]
		c.truncated = true
	}
	c.buffer.Write(chunk)
	return len(p), nil
}

func (c *collector) String() string {
	if c.isBinary {
		return binaryPlaceholder
	}
	return c.buffer.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}

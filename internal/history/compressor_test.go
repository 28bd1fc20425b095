package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/provider"
)

// echoOracle returns the user prompt it received, so the digest carries
// whatever the transcript contained.
type echoOracle struct {
	calls   int
	prompts []string
	err     error
}

func (o *echoOracle) Generate(ctx context.Context, req *provider.Request) (string, error) {
	o.calls++
	if o.err != nil {
		return "", o.err
	}
	prompt := req.Messages[len(req.Messages)-1].Content
	o.prompts = append(o.prompts, prompt)
	return "DIGEST\n" + prompt, nil
}

func seeded(n int) *conversation.State {
	s := conversation.NewState("Build a todo API")
	for i := 1; i < n; i++ {
		content := fmt.Sprintf("message %d", i)
		if i == 3 {
			content = "dotnet build failed: src/Api/TodoController.cs(14,5): error CS0246"
		}
		s.Append("Programmer", conversation.RoleActor, content)
	}
	return s
}

func TestCompress_TwentyFiveToTwelve(t *testing.T) {
	oracle := &echoOracle{}
	c := NewCompressor(oracle, DefaultOptions(), nil)
	s := seeded(25)

	changed, err := c.Compress(context.Background(), s)

	require.NoError(t, err)
	assert.True(t, changed)
	msgs := s.Messages()
	require.Len(t, msgs, 12)
	assert.Equal(t, "Build a todo API", msgs[0].Content)
	assert.True(t, msgs[1].IsDigest())
	assert.Contains(t, msgs[1].Content, "src/Api/TodoController.cs")
	assert.Contains(t, msgs[1].Content, "CS0246")
	assert.Equal(t, "message 15", msgs[2].Content)
	assert.Equal(t, "message 24", msgs[11].Content)

	sum, ok := s.Summary()
	require.True(t, ok)
	assert.Equal(t, 15, sum.Covered)
	assert.Equal(t, 1, oracle.calls)
}

func assertIncreasingOrdinals(t *testing.T, msgs []conversation.Message) {
	t.Helper()
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].Ordinal, msgs[i-1].Ordinal, "ordinal at index %d", i)
	}
}

func TestCompress_OrdinalsStayIncreasing(t *testing.T) {
	c := NewCompressor(&echoOracle{}, DefaultOptions(), nil)
	s := seeded(25)

	for round := 0; round < 3; round++ {
		changed, err := c.Compress(context.Background(), s)
		require.NoError(t, err)
		require.True(t, changed)
		msgs := s.Messages()
		assertIncreasingOrdinals(t, msgs)
		assert.Equal(t, msgs[2].Ordinal-1, msgs[1].Ordinal)

		for i := 0; i < 11; i++ {
			s.Append("Tester", conversation.RoleActor, "step")
		}
	}
	next := s.Append("QA", conversation.RoleActor, "check")
	assert.Equal(t, next, s.Messages()[s.Len()-1])
	assertIncreasingOrdinals(t, s.Messages())
}

func TestCompress_BelowThresholdIsNoop(t *testing.T) {
	oracle := &echoOracle{}
	c := NewCompressor(oracle, DefaultOptions(), nil)
	s := seeded(20)

	changed, err := c.Compress(context.Background(), s)

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 20, s.Len())
	assert.Zero(t, oracle.calls)
}

func TestCompress_DebounceKeepsEverything(t *testing.T) {
	oracle := &echoOracle{}
	c := NewCompressor(oracle, Options{Threshold: 12, Retain: 10, Debounce: 3}, nil)
	s := seeded(13)

	changed, err := c.Compress(context.Background(), s)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 12, s.Len())

	// One more message ages only one entry past the window.
	s.Append("QA", conversation.RoleActor, "QA_PASSED")
	changed, err = c.Compress(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 13, s.Len())
	assert.Equal(t, 1, oracle.calls)

	s.Append("Supervisor", conversation.RoleActor, "checking")
	s.Append("Supervisor", conversation.RoleActor, "APPROVED")
	changed, err = c.Compress(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 12, s.Len())
	assert.Equal(t, 2, oracle.calls)

	// The second prompt carries the previous digest and only the new messages.
	second := oracle.prompts[1]
	assert.Contains(t, second, "=== CURRENT DIGEST ===")
	assert.Contains(t, second, "CS0246")
	newPart := second[strings.LastIndex(second, "=== NEW MESSAGES ==="):]
	assert.Contains(t, newPart, "message 5")
	assert.NotContains(t, newPart, "message 2\n")
}

func TestCompress_CoverageNeverShrinks(t *testing.T) {
	oracle := &echoOracle{}
	c := NewCompressor(oracle, DefaultOptions(), nil)
	s := seeded(25)

	last := -1
	for round := 0; round < 5; round++ {
		_, err := c.Compress(context.Background(), s)
		require.NoError(t, err)
		sum, _ := s.Summary()
		assert.GreaterOrEqual(t, sum.Covered, last)
		last = sum.Covered
		for i := 0; i < 9; i++ {
			s.Append("Tester", conversation.RoleActor, "step")
		}
	}
	assert.LessOrEqual(t, s.Len(), 21)
}

func TestCompress_OracleErrorLeavesStateAlone(t *testing.T) {
	c := NewCompressor(&echoOracle{err: errors.New("unreachable")}, DefaultOptions(), nil)
	s := seeded(25)

	changed, err := c.Compress(context.Background(), s)

	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, 25, s.Len())
}

func TestSummaryPrompt_DemandsVerbatimDetails(t *testing.T) {
	for _, kw := range []string{"APPROVED", "PROJECT_FAILED", "HANDOFF", "QA_PASSED", "REJECTED", "file paths", "error codes", "most recent concrete action"} {
		assert.Contains(t, summarizerInstruction, kw)
	}
}

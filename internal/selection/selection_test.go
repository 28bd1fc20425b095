package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/provider"
)

// scriptedOracle answers every request with reply and records prompts.
type scriptedOracle struct {
	reply   string
	err     error
	prompts []string
}

func (o *scriptedOracle) Generate(ctx context.Context, req *provider.Request) (string, error) {
	o.prompts = append(o.prompts, req.Messages[0].Content)
	return o.reply, o.err
}

func transcript(entries ...[2]string) []conversation.Message {
	s := conversation.NewState("Build a CLI calculator")
	for _, e := range entries {
		role := conversation.RoleActor
		if e[0] == conversation.AuthorInterceptor {
			role = conversation.RoleSystem
		}
		s.Append(e[0], role, e[1])
	}
	return s.Messages()
}

func newEngine(t *testing.T, oracle provider.Oracle, mode Mode) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Mode = mode
	return NewEngine(actor.DefaultRoster(), oracle, opts, nil)
}

func TestNext_HandoffWins(t *testing.T) {
	oracle := &scriptedOracle{reply: "<agent>Programmer</agent>"}
	e := newEngine(t, oracle, NewProject)

	d, err := e.Next(context.Background(), transcript(
		[2]string{"Tester", "[I am Tester] all green. [HANDOFF TO QA]"},
	))

	require.NoError(t, err)
	assert.Equal(t, "QA", d.Actor.Name)
	assert.Equal(t, RuleHandoff, d.Rule)
	assert.Empty(t, oracle.prompts)
}

func TestNext_HandoffSkipsToolResults(t *testing.T) {
	e := newEngine(t, &scriptedOracle{}, NewProject)

	d, err := e.Next(context.Background(), transcript(
		[2]string{"System_Designer", "Plan written. [HANDOFF TO programmer.]"},
		[2]string{conversation.AuthorInterceptor, "[Tool Result (WriteFile - ArchitecturePlan.md)]: ok"},
		[2]string{conversation.AuthorInterceptor, "[Tool Result (ListFiles)]: ArchitecturePlan.md"},
	))

	require.NoError(t, err)
	assert.Equal(t, "Programmer", d.Actor.Name)
}

func TestNext_OlderHandoffDoesNotApply(t *testing.T) {
	// The Programmer is mid-task; the Designer's older handoff is stale.
	e := newEngine(t, &scriptedOracle{}, NewProject)

	d, err := e.Next(context.Background(), transcript(
		[2]string{"System_Designer", "[HANDOFF TO DBA]"},
		[2]string{"Programmer", "Now wiring the parser."},
	))

	require.NoError(t, err)
	assert.Equal(t, "Programmer", d.Actor.Name)
	assert.Equal(t, RuleSticky, d.Rule)
}

func TestNext_HandoffToUnknownFallsThrough(t *testing.T) {
	oracle := &scriptedOracle{reply: "<agent>Tester</agent>"}
	e := newEngine(t, oracle, NewProject)

	d, err := e.Next(context.Background(), transcript(
		[2]string{"Programmer", "done [HANDOFF TO Intern]"},
	))

	require.NoError(t, err)
	assert.Equal(t, "Tester", d.Actor.Name)
	assert.Equal(t, RuleOracle, d.Rule)
}

func TestNext_BootstrapSelectsEntry(t *testing.T) {
	oracle := &scriptedOracle{reply: "<agent>QA</agent>"}
	e := newEngine(t, oracle, ExistingProject)

	d, err := e.Next(context.Background(), transcript())

	require.NoError(t, err)
	assert.Equal(t, "Supervisor", d.Actor.Name)
	assert.Equal(t, RuleBootstrap, d.Rule)
	assert.Empty(t, oracle.prompts)
}

func TestNext_Stickiness(t *testing.T) {
	oracle := &scriptedOracle{reply: "<agent>QA</agent>"}
	e := newEngine(t, oracle, NewProject)

	d, err := e.Next(context.Background(), transcript(
		[2]string{"Supervisor", "Requirements: add, subtract."},
		[2]string{"Programmer", "[I am Programmer] Let me check the layout. file_system.ListFiles()"},
		[2]string{conversation.AuthorInterceptor, "[Tool Result (ListFiles)]: (no files)"},
	))

	require.NoError(t, err)
	assert.Equal(t, "Programmer", d.Actor.Name)
	assert.Equal(t, RuleSticky, d.Rule)
}

func TestNext_NoStickinessForEntryOrCompletion(t *testing.T) {
	tests := []struct {
		name string
		last [2]string
	}{
		{"entry actor", [2]string{"Supervisor", "Thinking about scope."}},
		{"completion keyword", [2]string{"QA", "Looks approved to me"}},
		{"failure keyword", [2]string{"Programmer", "PROJECT_FAILED: no SDK"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &scriptedOracle{reply: "<agent>Tester</agent>"}
			e := newEngine(t, oracle, NewProject)

			d, err := e.Next(context.Background(), transcript(tt.last))

			require.NoError(t, err)
			assert.Equal(t, RuleOracle, d.Rule)
			assert.Len(t, oracle.prompts, 1)
		})
	}
}

func TestNext_OracleReplyParsing(t *testing.T) {
	tests := []struct {
		reply string
		want  string
		rule  Rule
	}{
		{"<agent>Tester</agent>", "Tester", RuleOracle},
		{"<AGENT> qa </AGENT>", "QA", RuleOracle},
		{"I think Second_Programmer should continue", "Second_Programmer", RuleOracleFuzzy},
		{"<agent>Nobody</agent> maybe the programmer", "Programmer", RuleOracleFuzzy},
		{"no idea", "Supervisor", RuleFallback},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			e := newEngine(t, &scriptedOracle{reply: tt.reply}, NewProject)

			d, err := e.Next(context.Background(), transcript(
				[2]string{"Supervisor", "Assigning work."},
			))

			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Actor.Name)
			assert.Equal(t, tt.rule, d.Rule)
		})
	}
}

func TestNext_OraclePromptWindow(t *testing.T) {
	oracle := &scriptedOracle{reply: "<agent>QA</agent>"}
	e := newEngine(t, oracle, ExistingProject)

	_, err := e.Next(context.Background(), transcript(
		[2]string{"Supervisor", "first"},
		[2]string{"Supervisor", "second"},
		[2]string{"Supervisor", "third"},
		[2]string{"Supervisor", "fourth"},
	))

	require.NoError(t, err)
	require.Len(t, oracle.prompts, 1)
	p := oracle.prompts[0]
	assert.Contains(t, p, "Agents: Supervisor, System_Designer, DBA, Researcher, Programmer, Second_Programmer, Tester, QA")
	assert.Contains(t, p, "Supervisor: second\nSupervisor: third\nSupervisor: fourth")
	assert.NotContains(t, p, "Supervisor: first")
	assert.Contains(t, p, "QA (failed) -> Programmer")
}

func TestNext_OracleErrorIsFatal(t *testing.T) {
	boom := errors.New("unreachable")
	e := newEngine(t, &scriptedOracle{err: boom}, NewProject)

	_, err := e.Next(context.Background(), transcript(
		[2]string{"Supervisor", "Assigning work."},
	))

	assert.ErrorIs(t, err, boom)
}

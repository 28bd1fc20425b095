package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/config"
	"github.com/Cyclone1070/agentteam/internal/orchestrator"
	"github.com/Cyclone1070/agentteam/internal/provider"
	"github.com/Cyclone1070/agentteam/internal/selection"
	testhelpers "github.com/Cyclone1070/agentteam/internal/testing/testhelpers"
	"github.com/Cyclone1070/agentteam/internal/tool/service/path"
)

func safeTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := path.IsSafeProjectDir(dir); err != nil {
		t.Skipf("temp dir %s is not a usable project root: %v", dir, err)
	}
	return dir
}

func testGlobals(t *testing.T, configJSON string) *globalOptions {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configJSON), 0o644))
	return &globalOptions{
		configPath: cfgPath,
		logFile:    filepath.Join(dir, "agentteam.log"),
		logFormat:  "json",
	}
}

func testDeps(oracle provider.Oracle, home string) Dependencies {
	return Dependencies{
		OracleFactory: func(ctx context.Context, cfg *config.Config, getenv func(string) string, logger *zap.Logger) (provider.Oracle, error) {
			return oracle, nil
		},
		Getenv:  func(string) string { return "" },
		HomeDir: func() (string, error) { return home, nil },
	}
}

// --- END TO END ---

func TestRunTeam_SelfTestPasses(t *testing.T) {
	home := safeTempDir(t)
	oracle := testhelpers.NewScriptedOracle().
		WithReplies("Supervisor", "[HANDOFF TO Programmer]", "QA passed. APPROVED").
		WithReplies("Programmer",
			fmt.Sprintf("file_system.WriteFile(relativePath='%s', content='%s')", orchestrator.SelfTestFile, orchestrator.SelfTestContent),
			"[HANDOFF TO QA]").
		WithReplies("QA",
			fmt.Sprintf("file_system.ReadFile(relativePath='%s')", orchestrator.SelfTestFile),
			"QA_PASSED [HANDOFF TO Supervisor]")
	var out bytes.Buffer

	err := runTeam(context.Background(), &out, testGlobals(t, `{}`), runOptions{selfTest: true, name: "selftest"}, testDeps(oracle, home))

	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(home, "Projects", "selftest", orchestrator.SelfTestFile))
	require.NoError(t, err)
	assert.Equal(t, orchestrator.SelfTestContent, string(data))

	text := out.String()
	assert.Contains(t, text, "--- Team Working ---")
	assert.Contains(t, text, "[Programmer]:")
	assert.Contains(t, text, "[System_Interceptor]:")
	assert.Contains(t, text, orchestrator.SelfTestContent)
	assert.Contains(t, text, "Project approved")
	assert.Contains(t, text, "[Test Passed]")
	assert.Contains(t, text, "--- Process Completed ---")
}

func TestRunTeam_SelfTestFailsWithoutFile(t *testing.T) {
	home := safeTempDir(t)
	oracle := testhelpers.NewScriptedOracle().WithReplies("Supervisor", "PROJECT_FAILED")
	var out bytes.Buffer

	err := runTeam(context.Background(), &out, testGlobals(t, `{}`), runOptions{selfTest: true, name: "fails"}, testDeps(oracle, home))

	assert.ErrorContains(t, err, "self-test failed")
	assert.Contains(t, out.String(), "[Test Failed]")
	assert.Contains(t, out.String(), "Project failed")
}

func TestRunTeam_TurnLimitFromConfig(t *testing.T) {
	project := safeTempDir(t)
	oracle := testhelpers.NewScriptedOracle().
		WithReplies("Supervisor", "thinking", "still thinking").
		WithFallback("<agent>Supervisor</agent>")
	var out bytes.Buffer

	err := runTeam(context.Background(), &out,
		testGlobals(t, `{"orchestrator": {"max_turns": 2, "max_rounds_per_turn": 1}}`),
		runOptions{goal: "loop", project: project, existing: true},
		testDeps(oracle, project))

	assert.ErrorIs(t, err, orchestrator.ErrTurnLimit)
	assert.Contains(t, out.String(), "Mode: existing")
	assert.Contains(t, out.String(), "Session stopped")
}

func TestRunTeam_OracleFactoryError(t *testing.T) {
	deps := testDeps(nil, safeTempDir(t))
	deps.OracleFactory = func(ctx context.Context, cfg *config.Config, getenv func(string) string, logger *zap.Logger) (provider.Oracle, error) {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	err := runTeam(context.Background(), &bytes.Buffer{}, testGlobals(t, `{}`), runOptions{goal: "x", name: "p"}, deps)

	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestRunTeam_RateLimitHint(t *testing.T) {
	limited := &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Retryable: true}
	oracle := testhelpers.NewScriptedOracle().WithError(limited)
	var out bytes.Buffer

	err := runTeam(context.Background(), &out, testGlobals(t, `{}`), runOptions{goal: "x", name: "limited"}, testDeps(oracle, safeTempDir(t)))

	assert.ErrorAs(t, err, &limited)
	assert.Contains(t, out.String(), "Rate limit persisted after retries")
}

func TestRunTeam_InvalidConfig(t *testing.T) {
	err := runTeam(context.Background(), &bytes.Buffer{},
		testGlobals(t, `{"history": {"threshold": -1}}`),
		runOptions{goal: "x"}, testDeps(nil, t.TempDir()))

	assert.ErrorContains(t, err, "load config")
}

// --- PROJECT RESOLUTION ---

func TestResolveProject_CreatesNewProjectUnderHome(t *testing.T) {
	home := safeTempDir(t)
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	root, mode, err := resolveProject(runOptions{}, func() (string, error) { return home, nil }, now)

	require.NoError(t, err)
	assert.Equal(t, selection.NewProject, mode)
	assert.Equal(t, "Project_20250304_050607", filepath.Base(root))
	assert.DirExists(t, root)
}

func TestResolveProject_ExistingMustExist(t *testing.T) {
	dir := safeTempDir(t)

	_, _, err := resolveProject(runOptions{existing: true, project: filepath.Join(dir, "nope")}, nil, time.Now())
	assert.Error(t, err)

	root, mode, err := resolveProject(runOptions{existing: true, project: `"` + dir + `"`}, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, selection.ExistingProject, mode)
	canonical, _ := filepath.EvalSymlinks(dir)
	assert.Equal(t, canonical, root)
}

func TestResolveProject_ExistingRequiresProject(t *testing.T) {
	_, _, err := resolveProject(runOptions{existing: true}, nil, time.Now())
	assert.ErrorContains(t, err, "--existing requires --project")
}

func TestResolveProject_RejectsSystemDirectories(t *testing.T) {
	for _, dir := range []string{"/", "/etc", "/usr/local/src"} {
		_, _, err := resolveProject(runOptions{existing: true, project: dir}, nil, time.Now())
		assert.ErrorIs(t, err, path.ErrUnsafeRoot, dir)
	}
}

// --- GOAL RESOLUTION ---

func TestResolveGoal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, specFileName), []byte("  build a library system \n"), 0o644))
	empty := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	goal, err := resolveGoal(runOptions{goal: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", goal)

	goal, err = resolveGoal(runOptions{goal: "ignored", goalFile: dir})
	require.NoError(t, err)
	assert.Equal(t, "build a library system", goal)

	goal, err = resolveGoal(runOptions{goal: "ignored", selfTest: true})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.SelfTestGoal, goal)

	_, err = resolveGoal(runOptions{goalFile: empty})
	assert.ErrorContains(t, err, "is empty")

	_, err = resolveGoal(runOptions{goalFile: filepath.Join(dir, "missing.md")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = resolveGoal(runOptions{goal: "   "})
	assert.ErrorIs(t, err, errNoGoal)
}

// --- WIRING HELPERS ---

func TestFallbackWait(t *testing.T) {
	assert.Equal(t, 5*time.Second, fallbackWait(5))
	assert.Less(t, fallbackWait(0), time.Duration(0))
}

func TestNewGeminiOracle_ReadsKeyThroughGetenv(t *testing.T) {
	var asked []string
	getenv := func(name string) string {
		asked = append(asked, name)
		return ""
	}

	_, err := newGeminiOracle(context.Background(), config.DefaultConfig(), getenv, zap.NewNop())

	assert.ErrorContains(t, err, "GEMINI_API_KEY")
	assert.Equal(t, []string{"GEMINI_API_KEY"}, asked)
}

func TestRunTeam_OracleFactoryGetsInjectedGetenv(t *testing.T) {
	deps := testDeps(nil, safeTempDir(t))
	deps.Getenv = func(name string) string { return "from-deps:" + name }
	var got string
	deps.OracleFactory = func(ctx context.Context, cfg *config.Config, getenv func(string) string, logger *zap.Logger) (provider.Oracle, error) {
		got = getenv("GEMINI_API_KEY")
		return nil, errors.New("stop here")
	}

	err := runTeam(context.Background(), &bytes.Buffer{}, testGlobals(t, `{}`), runOptions{goal: "x", name: "env"}, deps)

	assert.ErrorContains(t, err, "stop here")
	assert.Equal(t, "from-deps:GEMINI_API_KEY", got)
}

func TestLoadInstructions(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	shared, err := loadInstructions(cfg, root)
	require.NoError(t, err)
	assert.Empty(t, shared)

	cfg.Orchestrator.InstructionsFile = "Instruction.md"
	shared, err = loadInstructions(cfg, root)
	require.NoError(t, err)
	assert.Empty(t, shared)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Instruction.md"), []byte("Use .NET 8."), 0o644))
	shared, err = loadInstructions(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, "Use .NET 8.", shared)
}

func TestLoadRoster_TeamFile(t *testing.T) {
	cfg := config.DefaultConfig()
	roster, err := loadRoster(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Supervisor", roster.Entry().Name)

	cfg.Orchestrator.TeamFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadRoster(cfg)
	assert.ErrorContains(t, err, "read team file")
}

func TestPrintRoster(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, printRoster(&out, actor.DefaultRoster()))

	text := out.String()
	assert.Contains(t, text, "ACTOR")
	assert.Regexp(t, `Supervisor\s+docs\s+false\s+false\s+yes`, text)
	assert.Regexp(t, `QA\s+none\s+true`, text)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["team"])

	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	for _, flag := range []string{"goal", "goal-file", "project", "existing", "self-test", "markdown"} {
		assert.NotNil(t, run.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

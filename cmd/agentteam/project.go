package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyclone1070/agentteam/internal/orchestrator"
	"github.com/Cyclone1070/agentteam/internal/selection"
	"github.com/Cyclone1070/agentteam/internal/tool/service/path"
	"github.com/Cyclone1070/agentteam/internal/ui"
)

// specFileName is looked up when --goal-file names a directory.
const specFileName = "Specification.md"

var errNoGoal = errors.New("a goal is required (--goal, --goal-file or --self-test)")

// resolveProject returns the canonical sandbox root and the selection mode.
// New projects are created on demand; existing ones must already exist.
func resolveProject(opts runOptions, homeDir func() (string, error), now time.Time) (string, selection.Mode, error) {
	mode := selection.NewProject
	if opts.existing {
		mode = selection.ExistingProject
	}

	dir := unquote(opts.project)
	if dir == "" {
		if opts.existing {
			return "", mode, errors.New("--existing requires --project")
		}
		home, err := homeDir()
		if err != nil {
			return "", mode, fmt.Errorf("resolve home directory: %w", err)
		}
		name := opts.name
		if name == "" {
			name = "Project_" + now.Format("20060102_150405")
		}
		dir = filepath.Join(home, "Projects", name)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", mode, fmt.Errorf("resolve project directory: %w", err)
	}
	if err := path.IsSafeProjectDir(abs); err != nil {
		return "", mode, err
	}

	if mode == selection.NewProject {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", mode, fmt.Errorf("create project directory: %w", err)
		}
	}

	root, err := path.CanonicaliseRoot(abs)
	if err != nil {
		return "", mode, err
	}
	// Symlinks may point somewhere the unresolved path did not.
	if err := path.IsSafeProjectDir(root); err != nil {
		return "", mode, err
	}
	return root, mode, nil
}

// resolveGoal picks the session goal. The self-test wins, then a goal file,
// then the inline goal.
func resolveGoal(opts runOptions) (string, error) {
	if opts.selfTest {
		return orchestrator.SelfTestGoal, nil
	}

	if name := unquote(opts.goalFile); name != "" {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			name = filepath.Join(name, specFileName)
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read goal file: %w", err)
		}
		if goal := strings.TrimSpace(string(data)); goal != "" {
			return goal, nil
		}
		return "", fmt.Errorf("goal file %s is empty", name)
	}

	if goal := strings.TrimSpace(opts.goal); goal != "" {
		return goal, nil
	}
	return "", errNoGoal
}

// verifySelfTest checks that the self-test file was written.
func verifySelfTest(out io.Writer, root string) error {
	target := filepath.Join(root, orchestrator.SelfTestFile)
	data, err := os.ReadFile(target)
	if err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("\n[Test Failed]: File '%s' was NOT found.", target)))
		return fmt.Errorf("self-test failed: %w", err)
	}
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("\n[Test Passed]: File '%s' was successfully created.", target)))
	fmt.Fprintf(out, "Content: %s\n", data)
	return nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
